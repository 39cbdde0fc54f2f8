// File: concurrency/semaphore.go
// Package concurrency implements the capped counting semaphore.
// Author: momentics <momentics@gmail.com>

package concurrency

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Semaphore is a counting semaphore with a fixed maximum count. Release
// beyond the maximum is silently dropped, which makes a max-1 instance a
// binary wake signal: producers may release it on every state change
// without pairing against acquires, and a pending signal never
// accumulates past one.
type Semaphore struct {
	slots chan struct{}
	clk   clock.Clock
}

// SemaphoreOption customizes semaphore construction.
type SemaphoreOption func(*Semaphore)

// WithSemaphoreClock overrides the clock used for bounded waits.
func WithSemaphoreClock(clk clock.Clock) SemaphoreOption {
	return func(s *Semaphore) {
		if clk != nil {
			s.clk = clk
		}
	}
}

// NewSemaphore creates a semaphore with the given maximum and initial
// count. Returns nil when max <= 0 or initial is outside [0, max].
func NewSemaphore(max, initial int, opts ...SemaphoreOption) *Semaphore {
	if max <= 0 || initial < 0 || initial > max {
		return nil
	}
	s := &Semaphore{
		slots: make(chan struct{}, max),
		clk:   clock.New(),
	}
	for i := 0; i < initial; i++ {
		s.slots <- struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire blocks until a count is available.
func (s *Semaphore) Acquire() {
	<-s.slots
}

// TryAcquire acquires a count within the timeout. Zero polls once,
// negative blocks without bound. Returns false on timeout.
func (s *Semaphore) TryAcquire(timeout time.Duration) bool {
	if timeout < 0 {
		s.Acquire()
		return true
	}
	if timeout == 0 {
		select {
		case <-s.slots:
			return true
		default:
			return false
		}
	}
	t := s.clk.Timer(timeout)
	defer t.Stop()
	select {
	case <-s.slots:
		return true
	case <-t.C:
		return false
	}
}

// Release adds one count. A release past the maximum is dropped.
func (s *Semaphore) Release() {
	select {
	case s.slots <- struct{}{}:
	default:
	}
}

// Count returns the currently available count.
func (s *Semaphore) Count() int {
	return len(s.slots)
}
