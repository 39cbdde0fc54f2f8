// File: event/thread.go
// Package event implements the dispatcher thread.
// Author: momentics <momentics@gmail.com>

package event

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/concurrency"
	"github.com/momentics/hioload-rt/internal/goid"
)

// TimerHandler consumes TIMER events; the timer-expiry feed itself is an
// external collaborator.
type TimerHandler func(ev *api.Event)

// Thread is a named goroutine owning an event mailbox. Events sent to it
// are interpreted by Wait running on the thread's own goroutine.
type Thread struct {
	name  string
	queue *Queue
	log   *zap.Logger
	clk   clock.Clock

	timerHandler TimerHandler

	gid  atomic.Uint64
	done chan struct{}
}

// ThreadOption customizes thread construction.
type ThreadOption func(*Thread)

// WithThreadLogger attaches a structured logger.
func WithThreadLogger(log *zap.Logger) ThreadOption {
	return func(t *Thread) {
		if log != nil {
			t.log = log
		}
	}
}

// WithThreadClock overrides the clock used for mailbox timeouts.
func WithThreadClock(clk clock.Clock) ThreadOption {
	return func(t *Thread) {
		if clk != nil {
			t.clk = clk
		}
	}
}

// WithTimerHandler installs the TIMER event hook.
func WithTimerHandler(h TimerHandler) ThreadOption {
	return func(t *Thread) {
		t.timerHandler = h
	}
}

// CreateThread spawns a dispatcher goroutine running entry with a
// mailbox of queueCap events attached. Returns nil on invalid arguments.
func CreateThread(name string, queueCap int, entry func(*Thread), opts ...ThreadOption) *Thread {
	if name == "" || queueCap <= 0 || entry == nil {
		return nil
	}
	t := &Thread{
		name: name,
		log:  zap.NewNop(),
		clk:  clock.New(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.queue = NewQueue(queueCap, t.clk)
	go func() {
		t.gid.Store(goid.Current())
		t.log.Debug("thread started", zap.String("thread", t.name))
		defer func() {
			t.log.Debug("thread exited", zap.String("thread", t.name))
			close(t.done)
		}()
		entry(t)
	}()
	return t
}

// Name returns the thread's name.
func (t *Thread) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Queue returns the thread's mailbox.
func (t *Thread) Queue() *Queue {
	if t == nil {
		return nil
	}
	return t.queue
}

// isCurrent reports whether the caller runs on this thread's goroutine.
func (t *Thread) isCurrent() bool {
	gid := t.gid.Load()
	return gid != 0 && gid == goid.Current()
}

// Send enqueues ev into the thread's mailbox, blocking until a slot is
// free. A thread may not block on its own mailbox: a self-addressed send
// is attempted without blocking and a full mailbox is a fatal protocol
// violation, because silently dropping the event would corrupt the
// asynchronous-completion contract.
func (t *Thread) Send(ev *api.Event) bool {
	if t == nil || ev == nil {
		return false
	}
	if t.isCurrent() {
		if !t.queue.Put(*ev, 0) {
			t.log.Fatal("failed to send event to current thread",
				zap.String("thread", t.name),
				zap.Uint32("event", uint32(ev.ID)))
		}
		return true
	}
	return t.queue.Put(*ev, api.Forever)
}

// TrySend enqueues ev waiting at most timeout for a slot; usable from
// any context. Returns false on timeout.
func (t *Thread) TrySend(ev *api.Event, timeout time.Duration) bool {
	if t == nil || ev == nil {
		return false
	}
	return t.queue.Put(*ev, timeout)
}

// Wait dequeues the next event into ev, waiting up to timeout, and
// dispatches the well-known IDs. Must run on the thread's own goroutine.
// Returns false on timeout.
func (t *Thread) Wait(ev *api.Event, timeout time.Duration) bool {
	if t == nil || ev == nil {
		return false
	}
	got, ok := t.queue.Get(timeout)
	if !ok {
		return false
	}
	*ev = got
	t.dispatch(ev)
	return true
}

// dispatch interprets a dequeued event.
func (t *Thread) dispatch(ev *api.Event) {
	switch ev.ID {
	case api.EventTimer:
		if t.timerHandler != nil {
			t.timerHandler(ev)
		}
	case api.EventCallback:
		cb, _ := ev.Param1.(api.Callback)
		if cb != nil {
			cb(ev.Param2)
		}
		ev.ID = api.EventNone
	case api.EventNotify:
		deliverNotification(ev)
	case api.EventQuit:
		if sem, _ := ev.Param1.(*concurrency.Semaphore); sem != nil {
			sem.Release()
		}
	}
}

// PostCallback sends a CALLBACK event whose dispatch invokes cb(ctx) on
// this thread.
func (t *Thread) PostCallback(cb api.Callback, ctx any) bool {
	if t == nil || cb == nil {
		return false
	}
	ev := api.Event{
		ID:     api.EventCallback,
		Param1: cb,
		Param2: ctx,
	}
	return t.Send(&ev)
}

// SendQuit asks the thread to leave its event loop. With wait set the
// call blocks until the thread has seen the event; waiting on the
// calling thread itself returns false.
func (t *Thread) SendQuit(wait bool) bool {
	if t == nil {
		return false
	}
	ev := api.Event{ID: api.EventQuit}
	if wait {
		if t.isCurrent() {
			return false
		}
		sem := concurrency.NewSemaphore(1, 0)
		ev.Param1 = sem
		t.Send(&ev)
		sem.Acquire()
	} else {
		t.Send(&ev)
	}
	return true
}

// EventLoop runs Wait until a QUIT event is delivered. It is the default
// body for threads that exist only to dispatch.
func (t *Thread) EventLoop() {
	var ev api.Event
	for {
		if !t.Wait(&ev, api.Forever) {
			continue
		}
		if ev.ID == api.EventQuit {
			return
		}
	}
}

// Pending reports whether any event is queued.
func (t *Thread) Pending() bool {
	return t.PendingCount() > 0
}

// PendingCount returns the number of queued events.
func (t *Thread) PendingCount() int {
	if t == nil {
		return 0
	}
	return t.queue.Len()
}

// SpaceCount returns the number of free mailbox slots.
func (t *Thread) SpaceCount() int {
	if t == nil {
		return 0
	}
	return t.queue.Space()
}

// Join blocks until the thread's entry function has returned.
func (t *Thread) Join() {
	if t == nil {
		return
	}
	<-t.done
}

// Shutdown implements api.GracefulShutdown: it sends QUIT and waits for
// the goroutine to exit. Shutting down the calling thread itself fails.
func (t *Thread) Shutdown() error {
	if t == nil {
		return api.ErrInvalidArgument
	}
	if !t.SendQuit(true) {
		return api.ErrInvalidArgument
	}
	t.Join()
	return nil
}

var _ api.GracefulShutdown = (*Thread)(nil)
