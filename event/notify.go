// File: event/notify.go
// Package event implements the coalescing notification primitive.
// Author: momentics <momentics@gmail.com>
//
// A Notification is a single-shot "run this callback on thread T"
// trigger delivered through the owning thread's mailbox. Its status
// machine makes the concurrent trigger/cancel/delete interleavings
// explicit: triggers while queued coalesce into one delivery, a cancel
// turns the pending delivery into a status reset, and a delete while
// queued is deferred to the dispatcher.

package event

import (
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/concurrency"
)

type notifyStatus uint32

const (
	notifyIdle notifyStatus = iota
	notifyQueuedActive
	notifyQueuedCancel
	notifyQueuedDelete
)

// Notification is a coalescing deferred-callback trigger owned by a
// thread. Exactly one delivery is outstanding per object at any time.
type Notification struct {
	cs     *concurrency.Critical
	thread *Thread
	cb     api.Callback
	ctx    any
	status notifyStatus
	dead   bool
}

// NewNotification creates a notification that runs cb(ctx) on thread
// when triggered. Returns nil on invalid arguments.
func NewNotification(thread *Thread, cb api.Callback, ctx any) *Notification {
	if thread == nil || cb == nil {
		return nil
	}
	return &Notification{
		cs:     concurrency.NewCritical(),
		thread: thread,
		cb:     cb,
		ctx:    ctx,
		status: notifyIdle,
	}
}

// Trigger schedules the callback on the owning thread. Triggering while
// a delivery is already queued coalesces: multiple triggers before the
// thread processes its mailbox produce exactly one invocation. Trigger
// after Delete is a no-op.
func (n *Notification) Trigger() {
	if n == nil {
		return
	}
	n.cs.Enter()
	if n.dead || n.status == notifyQueuedDelete {
		n.cs.Exit()
		return
	}
	send := n.status == notifyIdle
	n.status = notifyQueuedActive
	n.cs.Exit()

	// The event is sent after leaving the critical section: a blocking
	// mailbox enqueue must not hold the status lock the dispatcher
	// needs. A concurrent trigger observing QUEUED_ACTIVE coalesces, so
	// at most one NOTIFY event is in flight.
	if send {
		ev := api.Event{ID: api.EventNotify, Param1: n}
		n.thread.Send(&ev)
	}
}

// Cancel turns a pending delivery into a no-op that still resets the
// status to idle. Cancelling an idle notification does nothing.
func (n *Notification) Cancel() {
	if n == nil {
		return
	}
	n.cs.Enter()
	if n.status == notifyQueuedActive {
		n.status = notifyQueuedCancel
	}
	n.cs.Exit()
}

// Delete releases the notification. While a delivery is queued the
// release is deferred: the dispatcher finalizes the object instead of
// invoking the callback.
func (n *Notification) Delete() {
	if n == nil {
		return
	}
	n.cs.Enter()
	if n.status == notifyIdle {
		n.finalize()
	} else {
		n.status = notifyQueuedDelete
	}
	n.cs.Exit()
}

// finalize drops the object's references; the collector reclaims it once
// the last handle goes away. Callers hold the critical section.
func (n *Notification) finalize() {
	n.dead = true
	n.cb = nil
	n.ctx = nil
}

// deliverNotification resolves a NOTIFY event inside the dispatcher.
func deliverNotification(ev *api.Event) {
	n, _ := ev.Param1.(*Notification)
	if n == nil {
		return
	}
	var cb api.Callback
	var ctx any
	n.cs.Enter()
	switch n.status {
	case notifyQueuedDelete:
		n.finalize()
	case notifyQueuedActive:
		cb = n.cb
		ctx = n.ctx
		n.status = notifyIdle
	default:
		n.status = notifyIdle
	}
	n.cs.Exit()
	if cb != nil {
		cb(ctx)
	}
	ev.ID = api.EventNone
}
