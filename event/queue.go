// File: event/queue.go
// Package event implements the bounded per-thread mailbox.
// Author: momentics <momentics@gmail.com>
//
// Queue is the classic bounded buffer built from two counting
// semaphores: producers consume space tokens and release data tokens,
// consumers do the reverse, and the FIFO itself is touched only inside a
// critical section. Both ends support the poll/bounded/forever timeout
// convention.

package event

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/eapache/queue"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/concurrency"
)

// Queue is a bounded FIFO of Events, capacity fixed at creation.
type Queue struct {
	cs       *concurrency.Critical
	fifo     *queue.Queue
	space    *concurrency.Semaphore
	data     *concurrency.Semaphore
	capacity int
}

// NewQueue creates a mailbox holding up to capacity events. Returns nil
// when capacity is not positive.
func NewQueue(capacity int, clk clock.Clock) *Queue {
	if capacity <= 0 {
		return nil
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Queue{
		cs:       concurrency.NewCritical(),
		fifo:     queue.New(),
		space:    concurrency.NewSemaphore(capacity, capacity, concurrency.WithSemaphoreClock(clk)),
		data:     concurrency.NewSemaphore(capacity, 0, concurrency.WithSemaphoreClock(clk)),
		capacity: capacity,
	}
}

// Put enqueues ev, waiting up to timeout for a free slot. Returns false
// on timeout or a nil queue.
func (q *Queue) Put(ev api.Event, timeout time.Duration) bool {
	if q == nil {
		return false
	}
	if !q.space.TryAcquire(timeout) {
		return false
	}
	q.cs.Enter()
	q.fifo.Add(ev)
	q.cs.Exit()
	q.data.Release()
	return true
}

// Get dequeues the oldest event, waiting up to timeout for one to
// arrive. The second result is false on timeout or a nil queue.
func (q *Queue) Get(timeout time.Duration) (api.Event, bool) {
	if q == nil {
		return api.Event{}, false
	}
	if !q.data.TryAcquire(timeout) {
		return api.Event{}, false
	}
	q.cs.Enter()
	ev := q.fifo.Remove().(api.Event)
	q.cs.Exit()
	q.space.Release()
	return ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.cs.Enter()
	n := q.fifo.Length()
	q.cs.Exit()
	return n
}

// Space returns the number of free slots.
func (q *Queue) Space() int {
	if q == nil {
		return 0
	}
	return q.capacity - q.Len()
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	if q == nil {
		return 0
	}
	return q.capacity
}
