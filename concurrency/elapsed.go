// File: concurrency/elapsed.go
// Package concurrency implements elapsed timers for timeout budgeting.
// Author: momentics <momentics@gmail.com>

package concurrency

import (
	"time"

	"github.com/benbjohnson/clock"
)

// ElapsedTimer measures time since Start. Bounded-retry loops use it to
// consume a single relative timeout budget across several attempts
// instead of re-arming the full timeout on every retry.
type ElapsedTimer struct {
	clk   clock.Clock
	since time.Time
}

// NewElapsedTimer creates a started timer. A nil clock means wall clock.
func NewElapsedTimer(clk clock.Clock) *ElapsedTimer {
	if clk == nil {
		clk = clock.New()
	}
	t := &ElapsedTimer{clk: clk}
	t.Start()
	return t
}

// Start resets the measurement origin to now.
func (t *ElapsedTimer) Start() {
	t.since = t.clk.Now()
}

// Elapsed returns the time since Start.
func (t *ElapsedTimer) Elapsed() time.Duration {
	return t.clk.Now().Sub(t.since)
}

// Remaining subtracts the elapsed time from budget. The second result is
// false once the budget is exhausted.
func (t *ElapsedTimer) Remaining(budget time.Duration) (time.Duration, bool) {
	left := budget - t.Elapsed()
	return left, left >= 0
}
