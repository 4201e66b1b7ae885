package timer

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Tiers maps the head timer's urgency to the delay before the next rotation.
type Tiers struct {
	Critical time.Duration
	Warning  time.Duration
	Normal   time.Duration
}

func DefaultTiers() Tiers {
	return Tiers{
		Critical: 20 * time.Second,
		Warning:  15 * time.Second,
		Normal:   10 * time.Second,
	}
}

func (t Tiers) For(u Urgency) time.Duration {
	switch u {
	case Critical:
		return t.Critical
	case Warning:
		return t.Warning
	default:
		return t.Normal
	}
}

// Stack is the ordered set of timers on screen. The head is the major
// display. A Stack is not safe for concurrent use; it is owned by the UI
// model and only mutated from its update loop.
type Stack struct {
	timers          []Timer
	rotationStarted bool
	counter         int

	clock     clockwork.Clock
	scheduler Scheduler
	tiers     Tiers
}

func NewStack(clock clockwork.Clock, scheduler Scheduler, tiers Tiers) *Stack {
	return &Stack{
		clock:     clock,
		scheduler: scheduler,
		tiers:     tiers,
	}
}

// AddTimer appends a new timer to the tail. The first call arms rotation.
func (s *Stack) AddTimer(name string, length time.Duration) Timer {
	if length < 0 {
		length = 0
	}
	if !s.rotationStarted {
		delay := s.NextDelay()
		s.scheduler.Arm(delay)
		s.rotationStarted = true
		log.Debug().Dur("delay", delay).Msg("rotation armed")
	}

	t := New(s.clock, s.counter, name, length)
	s.counter++
	s.timers = append(s.timers, t)

	log.Debug().
		Int("timer_id", t.ID).
		Str("name", t.Name).
		Dur("length", t.Length).
		Int("stack_len", len(s.timers)).
		Msg("timer added")
	return t
}

// RemoveTimer deletes the timer with the given id. Unknown ids are ignored.
func (s *Stack) RemoveTimer(id int) (Timer, bool) {
	for i, t := range s.timers {
		if t.ID != id {
			continue
		}
		s.timers = append(s.timers[:i], s.timers[i+1:]...)
		log.Debug().Int("timer_id", id).Int("stack_len", len(s.timers)).Msg("timer removed")
		return t, true
	}
	return Timer{}, false
}

// Rotate re-arms the scheduler using the current head, then moves the head
// to the tail. The delay is taken before rotating.
func (s *Stack) Rotate() {
	delay := s.NextDelay()
	s.scheduler.Arm(delay)

	if len(s.timers) > 1 {
		head := s.timers[0]
		copy(s.timers, s.timers[1:])
		s.timers[len(s.timers)-1] = head
	}

	log.Debug().Dur("delay", delay).Int("stack_len", len(s.timers)).Msg("rotated")
}

func (s *Stack) NextDelay() time.Duration {
	if len(s.timers) == 0 {
		return s.tiers.Normal
	}
	return s.tiers.For(s.timers[0].Urgency())
}

// RenderSlots splits the stack into the major timer and the minor ones.
func (s *Stack) RenderSlots() (*Timer, []Timer) {
	if len(s.timers) == 0 {
		return nil, nil
	}
	major := s.timers[0]
	minors := make([]Timer, len(s.timers)-1)
	copy(minors, s.timers[1:])
	return &major, minors
}

func (s *Stack) Get(id int) (Timer, bool) {
	for _, t := range s.timers {
		if t.ID == id {
			return t, true
		}
	}
	return Timer{}, false
}

func (s *Stack) Timers() []Timer {
	out := make([]Timer, len(s.timers))
	copy(out, s.timers)
	return out
}

func (s *Stack) Len() int {
	return len(s.timers)
}

func (s *Stack) RotationStarted() bool {
	return s.rotationStarted
}
