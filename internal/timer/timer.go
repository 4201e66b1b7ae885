package timer

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Urgency thresholds in seconds left.
const (
	CriticalThreshold = 60
	WarningThreshold  = 300
)

type Urgency int

const (
	Normal Urgency = iota
	Warning
	Critical
)

func (u Urgency) String() string {
	switch u {
	case Critical:
		return "critical"
	case Warning:
		return "warning"
	default:
		return "normal"
	}
}

// ClassifyUrgency compares the signed value, so any overtime is Critical.
func ClassifyUrgency(secondsLeft int64) Urgency {
	switch {
	case secondsLeft <= CriticalThreshold:
		return Critical
	case secondsLeft <= WarningThreshold:
		return Warning
	default:
		return Normal
	}
}

// Timer is a single countdown. Its remaining time is derived from the clock
// on every call and never stored.
type Timer struct {
	ID     int
	Name   string
	Start  time.Time
	Length time.Duration

	clock clockwork.Clock
}

func New(clock clockwork.Clock, id int, name string, length time.Duration) Timer {
	return Timer{
		ID:     id,
		Name:   name,
		Start:  clock.Now(),
		Length: length,
		clock:  clock,
	}
}

// SecondsLeft is positive while counting down and negative once the timer
// is in overtime.
func (t Timer) SecondsLeft() int64 {
	return t.SecondsLeftAt(t.now())
}

func (t Timer) SecondsLeftAt(now time.Time) int64 {
	elapsed := now.Sub(t.Start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed <= t.Length {
		return int64((t.Length - elapsed) / time.Second)
	}
	return -int64((elapsed - t.Length) / time.Second)
}

func (t Timer) Overtime() bool {
	return t.SecondsLeft() < 0
}

func (t Timer) Urgency() Urgency {
	return ClassifyUrgency(t.SecondsLeft())
}

func (t Timer) FormatRemaining() string {
	return FormatSeconds(t.SecondsLeft())
}

// FormatSeconds renders [-]HH:MM:SS. Hours are not wrapped.
func FormatSeconds(secs int64) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	hours := secs / 3600
	minutes := (secs / 60) % 60
	seconds := secs % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, hours, minutes, seconds)
}

func (t Timer) now() time.Time {
	if t.clock == nil {
		return time.Now()
	}
	return t.clock.Now()
}
