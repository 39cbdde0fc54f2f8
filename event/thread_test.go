// File: event/thread_test.go
// Author: momentics <momentics@gmail.com>

package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/momentics/hioload-rt/api"
)

func TestCreateThreadInvalidArgs(t *testing.T) {
	assert.Nil(t, CreateThread("", 4, func(*Thread) {}))
	assert.Nil(t, CreateThread("t", 0, func(*Thread) {}))
	assert.Nil(t, CreateThread("t", 4, nil))
}

func TestPostCallbackRunsOnThread(t *testing.T) {
	th := CreateThread("worker", 8, func(t *Thread) { t.EventLoop() })
	require.NotNil(t, th)
	defer th.Shutdown()

	ran := make(chan any, 1)
	require.True(t, th.PostCallback(func(ctx any) { ran <- ctx }, "payload"))

	select {
	case got := <-ran:
		assert.Equal(t, "payload", got)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}
}

func TestCallbackEventConsumedAfterDispatch(t *testing.T) {
	seen := make(chan api.EventID, 1)
	th := CreateThread("worker", 8, func(self *Thread) {
		var ev api.Event
		if self.Wait(&ev, api.Forever) {
			// Dispatch marks the callback event as consumed.
			seen <- ev.ID
		}
		self.EventLoop()
	})
	require.NotNil(t, th)
	defer th.Shutdown()

	require.True(t, th.PostCallback(func(any) {}, nil))
	select {
	case id := <-seen:
		assert.Equal(t, api.EventNone, id)
	case <-time.After(2 * time.Second):
		t.Fatal("callback event never dispatched")
	}
}

func TestSendQuitWaitJoins(t *testing.T) {
	exited := make(chan struct{})
	th := CreateThread("worker", 4, func(t *Thread) {
		defer close(exited)
		t.EventLoop()
	})
	require.NotNil(t, th)

	require.True(t, th.SendQuit(true))
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("thread did not leave its event loop")
	}
}

func TestSendQuitWaitOnSelfFails(t *testing.T) {
	result := make(chan bool, 1)
	th := CreateThread("worker", 4, func(t *Thread) {
		result <- t.SendQuit(true)
		t.EventLoop()
	})
	require.NotNil(t, th)
	defer th.Shutdown()

	select {
	case ok := <-result:
		assert.False(t, ok, "a thread must not wait on its own quit")
	case <-time.After(2 * time.Second):
		t.Fatal("self quit attempt deadlocked")
	}
}

func TestTimerHandlerInvoked(t *testing.T) {
	fired := make(chan struct{}, 1)
	th := CreateThread("worker", 4,
		func(t *Thread) { t.EventLoop() },
		WithTimerHandler(func(ev *api.Event) { fired <- struct{}{} }))
	require.NotNil(t, th)
	defer th.Shutdown()

	require.True(t, th.TrySend(&api.Event{ID: api.EventTimer}, 0))
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer handler never ran")
	}
}

func TestTrySendFullMailbox(t *testing.T) {
	// Entry never drains, so the mailbox stays as filled.
	block := make(chan struct{})
	th := CreateThread("stalled", 2, func(t *Thread) { <-block })
	require.NotNil(t, th)
	defer close(block)

	require.True(t, th.TrySend(&api.Event{ID: api.EventUser}, 0))
	require.True(t, th.TrySend(&api.Event{ID: api.EventUser}, 0))
	assert.False(t, th.TrySend(&api.Event{ID: api.EventUser}, 0))
	assert.Equal(t, 2, th.PendingCount())
	assert.Equal(t, 0, th.SpaceCount())
}

// A blocking self-send into a full mailbox is a protocol violation with
// a fatal outcome. The test downgrades fatal to panic to observe it.
func TestSelfSendFullMailboxIsFatal(t *testing.T) {
	fatal := make(chan any, 1)
	log := zap.New(zapcore.NewNopCore(), zap.OnFatal(zapcore.WriteThenPanic))

	th := CreateThread("self", 1, func(self *Thread) {
		defer func() {
			fatal <- recover()
		}()
		var ev api.Event
		self.Wait(&ev, api.Forever)
	}, WithThreadLogger(log))
	require.NotNil(t, th)

	// Runs on the thread: the first self-send fills the mailbox, the
	// second must abort.
	require.True(t, th.PostCallback(func(any) {
		ev := api.Event{ID: api.EventUser}
		th.Send(&ev)
		th.Send(&ev)
	}, nil))

	select {
	case r := <-fatal:
		assert.NotNil(t, r, "expected a fatal outcome")
	case <-time.After(2 * time.Second):
		t.Fatal("self-send violation was not detected")
	}
}

func TestShutdownFromOtherThread(t *testing.T) {
	th := CreateThread("worker", 4, func(t *Thread) { t.EventLoop() })
	require.NotNil(t, th)
	assert.NoError(t, th.Shutdown())
}

func TestNilThreadIsInert(t *testing.T) {
	var th *Thread
	assert.False(t, th.Send(&api.Event{}))
	assert.False(t, th.TrySend(&api.Event{}, 0))
	assert.False(t, th.SendQuit(false))
	assert.Equal(t, 0, th.PendingCount())
	assert.Error(t, th.Shutdown())
}
