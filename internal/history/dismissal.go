package history

import (
	"time"

	"hourglass/internal/timer"
)

// Dismissal records a timer that was taken off the screen.
type Dismissal struct {
	ID          int64
	Session     string
	TimerID     int
	Name        string
	Length      time.Duration
	StartedAt   time.Time
	DismissedAt time.Time
	SecondsLeft int64
}

// FromTimer captures t as it stands at now.
func FromTimer(t timer.Timer, now time.Time) Dismissal {
	return Dismissal{
		TimerID:     t.ID,
		Name:        t.Name,
		Length:      t.Length,
		StartedAt:   t.Start,
		DismissedAt: now,
		SecondsLeft: t.SecondsLeftAt(now),
	}
}

func (d Dismissal) Overtime() bool {
	return d.SecondsLeft < 0
}
