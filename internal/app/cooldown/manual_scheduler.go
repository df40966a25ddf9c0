package cooldown

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler queues deferred callbacks until Advance or FireStopped runs them.
// It lets tests decide exactly when, or whether, a deferred reset happens.
type ManualScheduler struct {
	mu      sync.Mutex
	elapsed time.Duration
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, at: s.elapsed + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Pending returns the number of queued callbacks that were not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves scheduler time forward and runs, in due order, every callback
// that came due and was not stopped.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.elapsed += d
	due := s.take(func(t *manualTimer) bool { return !t.stopped && t.at <= s.elapsed })
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// FireStopped runs the callbacks whose timers were stopped, as if each had
// already been dispatched when Stop was called.
func (s *ManualScheduler) FireStopped() {
	s.mu.Lock()
	due := s.take(func(t *manualTimer) bool { return t.stopped })
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (s *ManualScheduler) take(match func(*manualTimer) bool) []*manualTimer {
	var due, rest []*manualTimer
	for _, t := range s.pending {
		if match(t) {
			due = append(due, t)
			continue
		}
		rest = append(rest, t)
	}
	s.pending = rest
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	return due
}
