package mirror

import (
	"time"

	"hourglass/internal/timer"
)

// Slot is one timer as the display renders it.
type Slot struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Remaining   string `json:"remaining"`
	SecondsLeft int64  `json:"seconds_left"`
	Urgency     string `json:"urgency"`
}

// Snapshot is the full screen at one instant: the major timer (nil when the
// stack is empty) and the minor stack in display order.
type Snapshot struct {
	Major  *Slot     `json:"major"`
	Minors []Slot    `json:"minors"`
	At     time.Time `json:"at"`
}

func NewSnapshot(major *timer.Timer, minors []timer.Timer, now time.Time) Snapshot {
	s := Snapshot{Minors: make([]Slot, 0, len(minors)), At: now}
	if major != nil {
		slot := slotOf(*major, now)
		s.Major = &slot
	}
	for _, t := range minors {
		s.Minors = append(s.Minors, slotOf(t, now))
	}
	return s
}

func slotOf(t timer.Timer, now time.Time) Slot {
	secs := t.SecondsLeftAt(now)
	return Slot{
		ID:          t.ID,
		Name:        t.Name,
		Remaining:   timer.FormatSeconds(secs),
		SecondsLeft: secs,
		Urgency:     timer.ClassifyUrgency(secs).String(),
	}
}
