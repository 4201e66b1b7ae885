package internal

import (
	"fmt"
	"strings"

	"hourglass/internal/history"
	"hourglass/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

const screenWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	majorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 4).
			Align(lipgloss.Center)

	majorTextStyle = lipgloss.NewStyle().Bold(true)

	minorItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	minorItemSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// urgencyColor matches the red/orange/plain scheme used on the floor screens.
func urgencyColor(u timer.Urgency) lipgloss.TerminalColor {
	switch u {
	case timer.Critical:
		return lipgloss.Color("196")
	case timer.Warning:
		return lipgloss.Color("214")
	default:
		return lipgloss.NoColor{}
	}
}

func timerLine(t timer.Timer) string {
	return fmt.Sprintf("%s: %s", t.Name, t.FormatRemaining())
}

func (m *Model) emptyStateView() string {
	return lipgloss.Place(
		screenWidth, 24,
		lipgloss.Center, lipgloss.Center,
		titleStyle.Render("hourglass")+"\n\n"+
			inactiveStyle.Render("Add a timer with 'n'!"),
	)
}

func (m *Model) mainView() string {
	major, minors := m.Stack.RenderSlots()

	var sb strings.Builder
	sb.WriteString(titleStyle.Width(screenWidth).Render("hourglass"))
	sb.WriteString("\n\n")
	sb.WriteString(m.majorView(*major))
	sb.WriteString("\n\n")

	for _, t := range minors {
		sb.WriteString(m.minorView(t))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Select: Up/Down | Delete: d | New: n | History: l | Quit: q"))
	return sb.String()
}

func (m *Model) majorView(t timer.Timer) string {
	text := majorTextStyle.Foreground(urgencyColor(t.Urgency())).Render(timerLine(t))
	box := majorBoxStyle
	if t.ID == m.selectedID() {
		box = box.BorderForeground(lipgloss.Color("170"))
	}
	return lipgloss.PlaceHorizontal(screenWidth, lipgloss.Center, box.Render(text))
}

func (m *Model) minorView(t timer.Timer) string {
	style := minorItemStyle
	marker := "  "
	if t.ID == m.selectedID() {
		style = minorItemSelectedStyle
		marker = "→ "
	}
	return style.Foreground(urgencyColor(t.Urgency())).Render(marker + timerLine(t))
}

func (m *Model) selectedID() int {
	t, ok := m.SelectedTimer()
	if !ok {
		return -1
	}
	return t.ID
}

func (m *Model) addFormView() string {
	nameMarker, lengthMarker := "  ", "  "
	nameLabel, lengthLabel := inputInactiveStyle, inputInactiveStyle
	nameValue, lengthValue := m.NewTimerName, m.NewTimerLength
	if m.InputFocus == 0 {
		nameMarker = "→ "
		nameLabel = inputStyle
		nameValue = inputStyle.Render(nameValue + "█")
	} else {
		lengthMarker = "→ "
		lengthLabel = inputStyle
		lengthValue = inputStyle.Render(lengthValue + "█")
	}

	form := fmt.Sprintf("%s%s\n\n%s%s",
		nameLabel.Render(nameMarker+"Timer name: "), nameValue,
		lengthLabel.Render(lengthMarker+"Length (minutes or 1h30m): "), lengthValue,
	)
	if m.Err != nil {
		form += "\n\n" + errorStyle.Render(m.Err.Error())
	}
	form += "\n\n" + helpStyle.Render("Tab: Switch | Enter: Next/Create | Esc: Cancel")

	return lipgloss.Place(
		screenWidth, 24,
		lipgloss.Center, lipgloss.Center,
		titleStyle.Render("New Timer")+"\n\n"+boxStyle.Width(56).Render(form),
	)
}

func (m *Model) historyView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(screenWidth).Render("Dismissed Timers"))
	sb.WriteString("\n\n")

	if len(m.History) == 0 {
		sb.WriteString(inactiveStyle.Render("Nothing dismissed yet."))
	} else {
		sb.WriteString(logHeaderStyle.Render(fmt.Sprintf("%-12s  %-24s  %-9s  %s", "Dismissed", "Timer", "Length", "Left")))
		sb.WriteString("\n")
		const pageSize = 15
		end := min(m.HistoryScroll+pageSize, len(m.History))
		for _, d := range m.History[m.HistoryScroll:end] {
			sb.WriteString(m.formatDismissal(d))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Back: l/Esc"))
	return sb.String()
}

func (m *Model) formatDismissal(d history.Dismissal) string {
	when := logTimeStyle.Render(fmt.Sprintf("%-12s", d.DismissedAt.Format("Jan 02 15:04")))
	left := lipgloss.NewStyle().
		Foreground(urgencyColor(timer.ClassifyUrgency(d.SecondsLeft))).
		Render(timer.FormatSeconds(d.SecondsLeft))
	line := fmt.Sprintf("%s  %-24s  %-9s  %s", when, truncate(d.Name, 24), timer.FormatSeconds(int64(d.Length.Seconds())), left)
	if m.history != nil && d.Session != m.history.Session() {
		line = inactiveStyle.Render(line)
	}
	return line
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
