package internal

import (
	"errors"
	"testing"
	"time"

	"hourglass/internal/history"
	"hourglass/internal/mirror"
	"hourglass/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScheduler struct{ arms []time.Duration }

func (s *countingScheduler) Arm(d time.Duration) { s.arms = append(s.arms, d) }

type memoryHistory struct {
	entries []history.Dismissal
	failing bool
}

func (h *memoryHistory) Record(d *history.Dismissal) error {
	if h.failing {
		return errors.New("disk full")
	}
	d.Session = h.Session()
	d.ID = int64(len(h.entries) + 1)
	h.entries = append([]history.Dismissal{*d}, h.entries...)
	return nil
}

func (h *memoryHistory) Recent(limit int) ([]history.Dismissal, error) {
	return h.entries[:min(limit, len(h.entries))], nil
}

func (h *memoryHistory) Session() string { return "current" }

type capturePublisher struct{ last *mirror.Snapshot }

func (p *capturePublisher) Publish(s mirror.Snapshot) { p.last = &s }

type fixture struct {
	model *Model
	clock *clockwork.FakeClock
	sched *countingScheduler
	hist  *memoryHistory
	pub   *capturePublisher
}

func newFixture() *fixture {
	f := &fixture{
		clock: clockwork.NewFakeClock(),
		sched: &countingScheduler{},
		hist:  &memoryHistory{},
		pub:   &capturePublisher{},
	}
	stack := timer.NewStack(f.clock, f.sched, timer.DefaultTiers())
	f.model = NewModel(f.clock, stack, f.hist, f.pub)
	return f
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (f *fixture) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		f.model.Update(msg)
	}
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.send(key(string(r)))
	}
}

func (f *fixture) createViaForm(name, length string) {
	f.send(key("n"))
	f.typeText(name)
	f.send(key("enter"))
	f.typeText(length)
	f.send(key("enter"))
}

func stackNames(m *Model) []string {
	var out []string
	for _, t := range m.Stack.Timers() {
		out = append(out, t.Name)
	}
	return out
}

func TestEmptyStateShowsPlaceholder(t *testing.T) {
	f := newFixture()
	assert.Contains(t, f.model.View(), "Add a timer with 'n'!")
}

func TestCreateTimerThroughForm(t *testing.T) {
	f := newFixture()
	f.createViaForm("Table 7", "25")

	require.False(t, f.model.ShowAddForm)
	require.Equal(t, 1, f.model.Stack.Len())
	tm := f.model.Stack.Timers()[0]
	assert.Equal(t, "Table 7", tm.Name)
	assert.Equal(t, 25*time.Minute, tm.Length)
	assert.Equal(t, tm.ID, f.model.SelectedID)
	assert.Len(t, f.sched.arms, 1)

	view := f.model.View()
	assert.Contains(t, view, "Table 7: 00:25:00")
}

func TestFormRejectsBadLength(t *testing.T) {
	f := newFixture()
	f.createViaForm("oops", "soon")

	assert.True(t, f.model.ShowAddForm)
	assert.ErrorIs(t, f.model.Err, timer.ErrInvalidLength)
	assert.Equal(t, 0, f.model.Stack.Len())
	assert.Empty(t, f.sched.arms)
	assert.Contains(t, f.model.View(), "invalid timer length")

	f.send(key("backspace"), key("backspace"), key("backspace"), key("backspace"))
	f.typeText("90s")
	f.send(key("enter"))
	assert.False(t, f.model.ShowAddForm)
	assert.Nil(t, f.model.Err)
	assert.Equal(t, 90*time.Second, f.model.Stack.Timers()[0].Length)
}

func TestFormRejectsOverflowingLength(t *testing.T) {
	f := newFixture()
	f.createViaForm("forever", "200000000")

	assert.True(t, f.model.ShowAddForm)
	assert.ErrorIs(t, f.model.Err, timer.ErrInvalidLength)
	assert.Equal(t, 0, f.model.Stack.Len())
	assert.Empty(t, f.sched.arms)
}

func TestFormEscapeCancels(t *testing.T) {
	f := newFixture()
	f.send(key("n"))
	f.typeText("abc")
	f.send(key("esc"))

	assert.False(t, f.model.ShowAddForm)
	assert.Equal(t, 0, f.model.Stack.Len())
}

func TestFormTabSwitchesFocus(t *testing.T) {
	f := newFixture()
	f.send(key("n"))
	f.typeText("A")
	f.send(key("tab"))
	f.typeText("5")
	f.send(key("tab"))
	f.typeText("B")

	assert.Equal(t, "AB", f.model.NewTimerName)
	assert.Equal(t, "5", f.model.NewTimerLength)
}

func TestRotateMessageRotatesAndPublishes(t *testing.T) {
	f := newFixture()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, f.model.AddTimer(n, "10"))
	}

	f.send(MsgRotate{})
	assert.Equal(t, []string{"B", "C", "A"}, stackNames(f.model))
	assert.Len(t, f.sched.arms, 2)

	require.NotNil(t, f.pub.last)
	require.NotNil(t, f.pub.last.Major)
	assert.Equal(t, "B", f.pub.last.Major.Name)
	require.Len(t, f.pub.last.Minors, 2)
	assert.Equal(t, "A", f.pub.last.Minors[1].Name)
}

func TestTickDoesNotTouchStack(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.model.AddTimer("A", "1"))
	require.NoError(t, f.model.AddTimer("B", "1"))

	f.clock.Advance(30 * time.Second)
	f.send(MsgTick{})

	assert.Equal(t, []string{"A", "B"}, stackNames(f.model))
	assert.Len(t, f.sched.arms, 1)
	assert.Equal(t, "00:00:30", f.pub.last.Major.Remaining)
	assert.Contains(t, f.model.View(), "A: 00:00:30")
}

func TestSelectionFollowsTimerThroughRotation(t *testing.T) {
	f := newFixture()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, f.model.AddTimer(n, "10"))
	}
	f.send(key("down"))
	sel, ok := f.model.SelectedTimer()
	require.True(t, ok)
	assert.Equal(t, "B", sel.Name)

	f.send(MsgRotate{})
	sel, _ = f.model.SelectedTimer()
	assert.Equal(t, "B", sel.Name)

	f.send(key("up"), key("up"))
	sel, _ = f.model.SelectedTimer()
	assert.Equal(t, "B", sel.Name, "B is now the head")
}

func TestDeleteSelectedRecordsHistory(t *testing.T) {
	f := newFixture()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, f.model.AddTimer(n, "1"))
	}
	f.send(key("down"))
	f.clock.Advance(70 * time.Second)
	f.send(key("d"))

	assert.Equal(t, []string{"A", "C"}, stackNames(f.model))
	require.Len(t, f.hist.entries, 1)
	d := f.hist.entries[0]
	assert.Equal(t, "B", d.Name)
	assert.Equal(t, 1, d.TimerID)
	assert.EqualValues(t, -10, d.SecondsLeft)

	sel, _ := f.model.SelectedTimer()
	assert.Equal(t, "C", sel.Name, "selection moves to the next timer in order")
	assert.True(t, f.model.Stack.RotationStarted())
}

func TestDeleteKeepsWorkingWhenHistoryFails(t *testing.T) {
	f := newFixture()
	f.hist.failing = true
	require.NoError(t, f.model.AddTimer("A", "1"))

	f.send(key("x"))
	assert.Equal(t, 0, f.model.Stack.Len())
	assert.Equal(t, -1, f.model.SelectedID)
	assert.Contains(t, f.model.View(), "Add a timer with 'n'!")
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.model.AddTimer("A", "1"))
	f.model.DeleteTimer(99)

	assert.Equal(t, 1, f.model.Stack.Len())
	assert.Empty(t, f.hist.entries)
}

func TestHistoryView(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.model.AddTimer("Final table", "5"))
	f.model.DeleteTimer(0)

	f.send(key("l"))
	require.True(t, f.model.ShowHistory)
	require.Len(t, f.model.History, 1)
	assert.Contains(t, f.model.View(), "Final table")

	f.send(key("l"))
	assert.False(t, f.model.ShowHistory)
}

func TestQuit(t *testing.T) {
	f := newFixture()
	_, cmd := f.model.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
