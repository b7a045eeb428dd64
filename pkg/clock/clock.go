// Package clock provides ports.Clock implementations: Real, backed by the
// time package, and Manual, a virtual clock advanced explicitly by tests and
// replay tooling.
package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/markmenu/pkg/ports"
)

// Real is the wall clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// NewTimer starts a time.Timer.
func (Real) NewTimer(d time.Duration) ports.Timer {
	return realTimer{t: time.NewTimer(d)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }

// Manual is a virtual clock. Timers fire only when Advance or Set moves the
// clock to or past their deadline. It is safe for concurrent use.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

// NewManual creates a manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTimer creates a timer due d after the current virtual time. A timer with
// d <= 0 fires immediately.
func (m *Manual) NewTimer(d time.Duration) ports.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{
		clock:    m,
		deadline: m.now.Add(d),
		c:        make(chan time.Time, 1),
	}
	if d <= 0 {
		t.fired = true
		t.c <- m.now
		return t
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every timer that became due,
// in deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(m.now.Add(d))
}

// Set moves the clock to t. Moving backwards is ignored.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(t)
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// NextDeadline returns the earliest deadline among pending timers.
func (m *Manual) NextDeadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var next time.Time
	for _, timer := range m.timers {
		if next.IsZero() || timer.deadline.Before(next) {
			next = timer.deadline
		}
	}
	return next, !next.IsZero()
}

func (m *Manual) set(t time.Time) {
	if t.After(m.now) {
		m.now = t
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})
	kept := m.timers[:0]
	for _, timer := range m.timers {
		if timer.deadline.After(m.now) {
			kept = append(kept, timer)
			continue
		}
		timer.fired = true
		timer.c <- timer.deadline
	}
	m.timers = kept
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, timer := range m.timers {
		if timer == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	c        chan time.Time
	fired    bool
}

func (t *manualTimer) C() <-chan time.Time { return t.c }

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired {
		return false
	}
	return t.clock.remove(t)
}
