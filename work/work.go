// File: work/work.go
// Package work implements schedulable deferred-execution items.
// Author: momentics <momentics@gmail.com>

package work

import (
	"container/list"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/concurrency"
)

// lock guards every queue's item list and every item's owning-queue
// back-reference. A single lock makes cross-queue moves atomic.
var lock = concurrency.Default()

// Work is a unit of deferred execution. It is detached (no owning
// queue) until enqueued, and detaches again the moment a worker pops
// it, before the callbacks run.
type Work struct {
	run      api.Callback
	complete api.Callback
	ctx      any

	// Owning-queue back-reference, nil while detached. elem is the
	// item's link in wq.items and is only valid while wq is set.
	wq   *Queue
	elem *list.Element
}

// NewWork creates a work item invoking run(ctx) and then, if non-nil,
// complete(ctx) when executed. Returns nil if run is nil.
func NewWork(run, complete api.Callback, ctx any) *Work {
	if run == nil {
		return nil
	}
	return &Work{run: run, complete: complete, ctx: ctx}
}

// ResetCallback replaces the item's callbacks and context. The change
// applies to the next execution; an execution already in flight keeps
// the callbacks it captured at pop time.
func (w *Work) ResetCallback(run, complete api.Callback, ctx any) bool {
	if w == nil || run == nil {
		return false
	}
	lock.Enter()
	w.run = run
	w.complete = complete
	w.ctx = ctx
	lock.Exit()
	return true
}

// Function returns the item's run callback.
func (w *Work) Function() api.Callback {
	if w == nil {
		return nil
	}
	lock.Enter()
	run := w.run
	lock.Exit()
	return run
}

// Context returns the item's callback context.
func (w *Work) Context() any {
	if w == nil {
		return nil
	}
	lock.Enter()
	ctx := w.ctx
	lock.Exit()
	return ctx
}

// Cancel detaches the item from whatever queue it is on. An item
// already popped by a worker is past its decision point and cannot be
// aborted; Cancel then does nothing.
func (w *Work) Cancel() {
	if w == nil {
		return
	}
	lock.Enter()
	if q := w.wq; q != nil {
		q.detachLocked(w)
		q.cancelled.Inc()
	}
	lock.Exit()
}

// WaitFinish blocks until the item is no longer owned by any queue or
// the timeout budget expires. The finish signal is shared by all items
// in a queue, so wakes may be spurious with respect to this item; the
// loop rechecks ownership after every wake.
func (w *Work) WaitFinish(timeout time.Duration) bool {
	if w == nil {
		return false
	}
	var timer *concurrency.ElapsedTimer
	for {
		lock.Enter()
		wq := w.wq
		lock.Exit()
		if wq == nil {
			return true
		}
		if timeout == 0 {
			return false
		}
		if timeout < 0 {
			wq.finishSem.Acquire()
			continue
		}
		if timer == nil {
			timer = concurrency.NewElapsedTimer(wq.clk)
			timer.Start()
		}
		remaining, ok := timer.Remaining(timeout)
		if !ok {
			return false
		}
		wq.finishSem.TryAcquire(remaining)
	}
}

// Delete cancels the item and drops its callbacks. Deleting an item
// whose run callback is currently executing is the caller's
// responsibility to avoid.
func (w *Work) Delete() {
	if w == nil {
		return
	}
	w.Cancel()
	lock.Enter()
	w.run = nil
	w.complete = nil
	w.ctx = nil
	lock.Exit()
}
