// Package cooldown gates calls to an upstream that answered with a rate-limit
// signal. A Gate is armed with the upstream's retry-after value and denies
// permission until that instant has passed.
package cooldown

import (
	"sync"
	"time"

	"github.com/safatanc/gsalt-paylink/internal/app/pkg"
)

// MaxCooldown bounds a single trigger.
const MaxCooldown = 24 * time.Hour

// Timer is a pending deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// State is a point-in-time view of the gate.
type State struct {
	Active           bool
	Permitted        bool
	CooldownEndsAt   time.Time
	RemainingSeconds int
}

type Option func(*Gate)

func WithClock(clock pkg.Clock) Option {
	return func(g *Gate) { g.clock = clock }
}

func WithScheduler(scheduler Scheduler) Option {
	return func(g *Gate) { g.scheduler = scheduler }
}

// WithOnChange registers a callback invoked after every transition with the
// new active flag. It runs outside the gate lock.
func WithOnChange(fn func(active bool)) Option {
	return func(g *Gate) { g.onChange = fn }
}

// Gate is safe for concurrent use.
type Gate struct {
	clock     pkg.Clock
	scheduler Scheduler
	onChange  func(active bool)

	mu         sync.Mutex
	endAt      time.Time
	active     bool
	generation uint64
	timer      Timer
}

func NewGate(opts ...Option) *Gate {
	g := &Gate{
		clock:     pkg.NewSystemClock(),
		scheduler: timeScheduler{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Trigger arms the gate for retryAfterSeconds from now, capped at MaxCooldown.
// Re-arming replaces the previous end instant and cancels its deferred reset.
func (g *Gate) Trigger(retryAfterSeconds int) {
	delay := MaxCooldown
	switch {
	case retryAfterSeconds < 0:
		delay = 0
	case retryAfterSeconds < int(MaxCooldown/time.Second):
		delay = time.Duration(retryAfterSeconds) * time.Second
	}

	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.generation++
	generation := g.generation
	g.endAt = g.clock.Now().Add(delay)
	g.active = true
	g.timer = g.scheduler.AfterFunc(delay, func() { g.expire(generation) })
	g.mu.Unlock()

	g.notify(true)
}

// expire is the deferred reset. A reset scheduled by an older trigger is ignored.
func (g *Gate) expire(generation uint64) {
	g.mu.Lock()
	if generation != g.generation || !g.active {
		g.mu.Unlock()
		return
	}
	g.active = false
	g.timer = nil
	g.mu.Unlock()

	g.notify(false)
}

// Reset clears the gate immediately.
func (g *Gate) Reset() {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.generation++
	wasActive := g.active
	g.active = false
	g.endAt = time.Time{}
	g.mu.Unlock()

	if wasActive {
		g.notify(false)
	}
}

// IsPermitted reports whether a request may be sent at now. The end instant is
// authoritative: once it has passed, requests are permitted even if the
// deferred reset has not run yet.
func (g *Gate) IsPermitted(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permittedLocked(now)
}

func (g *Gate) IsActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// RemainingSeconds rounds up to whole seconds and never goes negative.
func (g *Gate) RemainingSeconds(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remainingLocked(now)
}

func (g *Gate) State(now time.Time) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{
		Active:           g.active,
		Permitted:        g.permittedLocked(now),
		CooldownEndsAt:   g.endAt,
		RemainingSeconds: g.remainingLocked(now),
	}
}

func (g *Gate) permittedLocked(now time.Time) bool {
	return !g.active || !now.Before(g.endAt)
}

func (g *Gate) remainingLocked(now time.Time) int {
	if !g.active {
		return 0
	}
	left := g.endAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (g *Gate) notify(active bool) {
	if g.onChange != nil {
		g.onChange(active)
	}
}
