package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Scheduler requests a single rotation after d has elapsed.
type Scheduler interface {
	Arm(d time.Duration)
}

// ClockScheduler is a one-shot timer that signals on Fired when it expires.
// Arming replaces whatever was pending, so at most one fire is outstanding.
type ClockScheduler struct {
	clock clockwork.Clock
	fired chan struct{}

	mu      sync.Mutex
	pending clockwork.Timer
	stopped bool
}

func NewClockScheduler(clock clockwork.Clock) *ClockScheduler {
	return &ClockScheduler{
		clock: clock,
		fired: make(chan struct{}, 1),
	}
}

func (s *ClockScheduler) Arm(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.pending != nil {
		s.pending.Stop()
	}

	fired := s.fired
	s.pending = s.clock.AfterFunc(d, func() {
		select {
		case fired <- struct{}{}:
		default:
			log.Warn().Msg("rotation signal dropped, previous one not consumed")
		}
	})
}

// Fired delivers one value per expired arm.
func (s *ClockScheduler) Fired() <-chan struct{} {
	return s.fired
}

func (s *ClockScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
