// Package countdown computes the remaining time of a fixed-length payment window.
//
// A Window holds no tick state. Every value it reports is derived from the start
// instant, the duration and the instant passed to Tick, so callers may poll it at
// any cadence.
package countdown

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDuration is the lifetime of a payment link.
const DefaultDuration = 15 * time.Minute

var ErrInvalidDuration = errors.New("countdown: duration must be positive")

// Window is an immutable [start, start+duration) interval.
type Window struct {
	start    time.Time
	duration time.Duration
}

// Snapshot is the result of a single Tick.
type Snapshot struct {
	Remaining time.Duration
	Expired   bool
}

// RemainingMs returns the remaining time in whole milliseconds.
func (s Snapshot) RemainingMs() int64 {
	return s.Remaining.Milliseconds()
}

// NewWindow starts tracking a window that opens at start and lasts for duration.
func NewWindow(start time.Time, duration time.Duration) (*Window, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Window{start: start, duration: duration}, nil
}

// Deadline returns the instant the window expires.
func (w *Window) Deadline() time.Time {
	return w.start.Add(w.duration)
}

// Tick reports the remaining time at now. Remaining never goes below zero and
// never exceeds the window duration, even when now is before start.
func (w *Window) Tick(now time.Time) Snapshot {
	elapsed := now.Sub(w.start)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := w.duration - elapsed
	if remaining <= 0 {
		return Snapshot{Remaining: 0, Expired: true}
	}

	return Snapshot{Remaining: remaining, Expired: false}
}

// Format renders remaining as minutes:seconds, truncating partial seconds.
// 125s renders "2:05".
func Format(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	totalSeconds := int64(remaining / time.Second)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
