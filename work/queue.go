// File: work/queue.go
// Package work implements the FIFO work queue and its worker loop.
// Author: momentics <momentics@gmail.com>

package work

import (
	"container/list"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/concurrency"
	"github.com/momentics/hioload-rt/control"
)

// Queue executes work items strictly in FIFO order of last insertion on
// one dedicated worker goroutine.
type Queue struct {
	name    string
	running bool
	items   *list.List

	// workSem wakes the idle worker; finishSem signals item completion
	// to WaitFinish callers. Both are binary.
	workSem   *concurrency.Semaphore
	finishSem *concurrency.Semaphore

	clk  clock.Clock
	log  *zap.Logger
	done chan struct{}

	enqueued  *control.Counter
	executed  *control.Counter
	cancelled *control.Counter
}

var _ api.GracefulShutdown = (*Queue)(nil)

// Option customizes queue construction.
type Option func(*Queue)

// WithLogger installs a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(q *Queue) {
		if log != nil {
			q.log = log
		}
	}
}

// WithClock installs the time source used for timeout budgets.
func WithClock(clk clock.Clock) Option {
	return func(q *Queue) {
		if clk != nil {
			q.clk = clk
		}
	}
}

// WithRegistry publishes per-queue enqueued/executed/cancelled counters
// under the queue's name.
func WithRegistry(mr *control.MetricsRegistry) Option {
	return func(q *Queue) {
		q.enqueued = mr.Counter(q.name + ".enqueued")
		q.executed = mr.Counter(q.name + ".executed")
		q.cancelled = mr.Counter(q.name + ".cancelled")
	}
}

// NewQueue creates a work queue and starts its worker goroutine.
// Returns nil if name is empty.
func NewQueue(name string, opts ...Option) *Queue {
	if name == "" {
		return nil
	}
	q := &Queue{
		name:    name,
		running: true,
		items:   list.New(),
		clk:     clock.New(),
		log:     zap.NewNop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	// The work signal starts raised so a worker racing the first enqueue
	// loops once instead of sleeping through it.
	q.workSem = concurrency.NewSemaphore(1, 1, concurrency.WithSemaphoreClock(q.clk))
	q.finishSem = concurrency.NewSemaphore(1, 0, concurrency.WithSemaphoreClock(q.clk))
	go q.worker()
	return q
}

// Name returns the queue's name.
func (q *Queue) Name() string {
	if q == nil {
		return ""
	}
	return q.name
}

// Pending returns the number of items queued and not yet popped.
func (q *Queue) Pending() int {
	if q == nil {
		return 0
	}
	lock.Enter()
	n := q.items.Len()
	lock.Exit()
	return n
}

// Enqueue appends the item at the tail and wakes the worker. An item
// already queued, here or elsewhere, is detached first, so an item
// executes at most once and on the queue it was inserted into last.
func (q *Queue) Enqueue(w *Work) bool {
	if q == nil || w == nil {
		return false
	}
	lock.Enter()
	if !q.running {
		lock.Exit()
		return false
	}
	if prev := w.wq; prev != nil {
		prev.detachLocked(w)
	}
	w.wq = q
	w.elem = q.items.PushBack(w)
	lock.Exit()
	q.enqueued.Inc()
	q.workSem.Release()
	return true
}

// EnqueueLast appends the item at the tail, identical to Enqueue. Both
// entry points exist because callers distinguish "schedule" from
// "reschedule behind everything else", but the insertion policy is the
// same.
func (q *Queue) EnqueueLast(w *Work) bool {
	return q.Enqueue(w)
}

// detachLocked unlinks the item from this queue. Callers hold lock.
func (q *Queue) detachLocked(w *Work) {
	if w.elem != nil {
		q.items.Remove(w.elem)
		w.elem = nil
	}
	w.wq = nil
}

// worker pops and executes items until the queue stops, then drains the
// remaining items without running them.
func (q *Queue) worker() {
	q.log.Debug("work queue started", zap.String("queue", q.name))
	defer close(q.done)
	for {
		lock.Enter()
		if !q.running {
			for q.items.Len() > 0 {
				w := q.items.Front().Value.(*Work)
				q.detachLocked(w)
				q.cancelled.Inc()
			}
			lock.Exit()
			// Wake any WaitFinish caller so it observes the
			// detachments.
			q.finishSem.Release()
			q.log.Debug("work queue stopped", zap.String("queue", q.name))
			return
		}
		front := q.items.Front()
		if front == nil {
			lock.Exit()
			q.workSem.Acquire()
			continue
		}
		w := front.Value.(*Work)
		q.detachLocked(w)
		run, complete, ctx := w.run, w.complete, w.ctx
		lock.Exit()

		// Callbacks run outside any lock: they may enqueue more work
		// or block.
		run(ctx)
		if complete != nil {
			complete(ctx)
		}
		q.executed.Inc()
		q.finishSem.Release()
	}
}

// Delete stops the queue. Queued items are drained without running and
// the worker goroutine terminates. Delete returns without waiting for
// the worker; use Shutdown to join it.
func (q *Queue) Delete() {
	if q == nil {
		return
	}
	lock.Enter()
	stopped := q.running
	q.running = false
	lock.Exit()
	if stopped {
		q.workSem.Release()
	}
}

// Shutdown stops the queue and waits for its worker to exit.
func (q *Queue) Shutdown() error {
	if q == nil {
		return api.ErrNotRunning
	}
	q.Delete()
	<-q.done
	return nil
}
