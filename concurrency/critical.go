// File: concurrency/critical.go
// Package concurrency implements the critical section.
// Author: momentics <momentics@gmail.com>
//
// Critical plays the role the global interrupt-disable pair plays in a
// firmware kernel: it serializes the pointer and integer updates of this
// layer's shared state. Holders perform no blocking operation and hold
// for a handful of instructions, so a test-and-test-and-set spin word is
// sufficient and keeps the uncontended path to a single CAS.

package concurrency

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Critical is a short-hold mutual exclusion region. It is not reentrant:
// entering a region already held by the caller deadlocks, exactly as
// re-disabling interrupts without saving state would misbehave.
type Critical struct {
	_    cpu.CacheLinePad
	word atomic.Uint32
	_    cpu.CacheLinePad
}

// NewCritical creates an isolated critical section, mainly for tests that
// want instances independent of the process default.
func NewCritical() *Critical {
	return &Critical{}
}

var defaultCritical Critical

// Default returns the process-wide critical section shared by components
// whose invariants span objects, such as work-item ownership transfer
// between queues.
func Default() *Critical {
	return &defaultCritical
}

// Enter acquires the region, spinning until it is free.
func (c *Critical) Enter() {
	for !c.word.CompareAndSwap(0, 1) {
		for c.word.Load() != 0 {
			runtime.Gosched()
		}
	}
}

// Exit releases the region.
func (c *Critical) Exit() {
	c.word.Store(0)
}
