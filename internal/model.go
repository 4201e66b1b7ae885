package internal

import (
	"hourglass/internal/history"
	"hourglass/internal/mirror"
	"hourglass/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// MsgTick refreshes the countdown strings. It never changes the stack.
type MsgTick struct{}

// MsgRotate is delivered when the rotation scheduler fires.
type MsgRotate struct{}

const historyLimit = 200

// HistoryStore keeps a record of dismissed timers.
type HistoryStore interface {
	Record(d *history.Dismissal) error
	Recent(limit int) ([]history.Dismissal, error)
	Session() string
}

// Publisher receives a snapshot of the screen on every refresh.
type Publisher interface {
	Publish(s mirror.Snapshot)
}

type Model struct {
	Stack *timer.Stack

	// SelectedID follows a timer through rotations; -1 means nothing.
	SelectedID int

	ShowAddForm    bool
	NewTimerName   string
	NewTimerLength string
	InputFocus     int
	Err            error

	ShowHistory   bool
	HistoryScroll int
	History       []history.Dismissal

	clock     clockwork.Clock
	history   HistoryStore
	publisher Publisher
}

// NewModel builds the UI around stack. store and pub may be nil.
func NewModel(clock clockwork.Clock, stack *timer.Stack, store HistoryStore, pub Publisher) *Model {
	return &Model{
		Stack:      stack,
		SelectedID: -1,
		clock:      clock,
		history:    store,
		publisher:  pub,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.publish()
		return m, nil
	case MsgRotate:
		m.Stack.Rotate()
		m.publish()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowHistory {
		return m.historyView()
	}

	if m.ShowAddForm {
		return m.addFormView()
	}

	if m.Stack.Len() == 0 {
		return m.emptyStateView()
	}

	return m.mainView()
}

// AddTimer parses the length and pushes a new timer onto the stack.
func (m *Model) AddTimer(name, length string) error {
	d, err := timer.ParseLength(length)
	if err != nil {
		return err
	}
	t := m.Stack.AddTimer(name, d)
	if m.SelectedID < 0 {
		m.SelectedID = t.ID
	}
	log.Info().Int("timer_id", t.ID).Str("name", t.Name).Dur("length", t.Length).Msg("timer created")
	m.publish()
	return nil
}

// DeleteTimer removes the timer and records it in the history store.
func (m *Model) DeleteTimer(id int) {
	pos := m.indexOf(id)
	t, ok := m.Stack.RemoveTimer(id)
	if !ok {
		return
	}

	if m.history != nil {
		d := history.FromTimer(t, m.clock.Now())
		if err := m.history.Record(&d); err != nil {
			log.Warn().Err(err).Int("timer_id", id).Msg("failed to record dismissal")
		}
	}
	log.Info().Int("timer_id", id).Str("name", t.Name).Msg("timer dismissed")

	if m.SelectedID == id {
		m.SelectedID = -1
		if timers := m.Stack.Timers(); len(timers) > 0 {
			m.SelectedID = timers[min(pos, len(timers)-1)].ID
		}
	}
	m.publish()
}

// SelectedTimer returns the selected timer, falling back to the major one.
func (m *Model) SelectedTimer() (timer.Timer, bool) {
	if t, ok := m.Stack.Get(m.SelectedID); ok {
		return t, true
	}
	major, _ := m.Stack.RenderSlots()
	if major == nil {
		return timer.Timer{}, false
	}
	return *major, true
}

func (m *Model) moveSelection(delta int) {
	timers := m.Stack.Timers()
	if len(timers) == 0 {
		return
	}
	idx := max(0, m.indexOf(m.SelectedID)+delta)
	idx = min(idx, len(timers)-1)
	m.SelectedID = timers[idx].ID
}

func (m *Model) indexOf(id int) int {
	for i, t := range m.Stack.Timers() {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) publish() {
	if m.publisher == nil {
		return
	}
	major, minors := m.Stack.RenderSlots()
	m.publisher.Publish(mirror.NewSnapshot(major, minors, m.clock.Now()))
}

func (m *Model) loadHistory() {
	m.History = nil
	m.HistoryScroll = 0
	if m.history == nil {
		return
	}
	entries, err := m.history.Recent(historyLimit)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load history")
		return
	}
	m.History = entries
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHistory {
		return m.handleHistoryInput(msg)
	}

	if m.ShowAddForm {
		return m.handleFormInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "n":
		m.ShowAddForm = true
		m.NewTimerName = ""
		m.NewTimerLength = ""
		m.InputFocus = 0
		m.Err = nil
	case "d", "x":
		if t, ok := m.SelectedTimer(); ok {
			m.DeleteTimer(t.ID)
		}
	case "l":
		m.loadHistory()
		m.ShowHistory = true
	}
	return m, nil
}

func (m *Model) handleHistoryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "l":
		m.ShowHistory = false
		m.History = nil
	case "up", "k":
		if m.HistoryScroll > 0 {
			m.HistoryScroll--
		}
	case "down", "j":
		if m.HistoryScroll < len(m.History)-1 {
			m.HistoryScroll++
		}
	}
	return m, nil
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ShowAddForm = false
		m.Err = nil
	case "enter":
		if m.InputFocus == 0 {
			m.InputFocus = 1
			break
		}
		if err := m.AddTimer(m.NewTimerName, m.NewTimerLength); err != nil {
			m.Err = err
			break
		}
		m.ShowAddForm = false
		m.Err = nil
	case "backspace":
		if m.InputFocus == 0 {
			m.NewTimerName = dropLastRune(m.NewTimerName)
		} else {
			m.NewTimerLength = dropLastRune(m.NewTimerLength)
		}
	case "tab", "shift+tab":
		m.InputFocus = 1 - m.InputFocus
	default:
		if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
			break
		}
		if m.InputFocus == 0 {
			m.NewTimerName += string(msg.Runes)
		} else {
			m.NewTimerLength += string(msg.Runes)
		}
	}
	return m, nil
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
