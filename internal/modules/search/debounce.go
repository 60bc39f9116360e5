package search

import (
	"sync"
	"time"
)

// Scheduler runs at most one pending function, replacing it on each Schedule
// call. It exists so tests can substitute an immediate implementation.
type Scheduler interface {
	// Schedule arranges fn to run after delay, cancelling any pending run.
	Schedule(delay time.Duration, fn func())
	// Cancel drops the pending run, if any.
	Cancel()
}

type timerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewTimerScheduler returns the wall-clock Scheduler used in production.
func NewTimerScheduler() Scheduler {
	return &timerScheduler{}
}

func (s *timerScheduler) Schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, fn)
}

func (s *timerScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
