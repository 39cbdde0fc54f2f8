// File: event/notify_test.go
// Author: momentics <momentics@gmail.com>

package event

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationInvalidArgs(t *testing.T) {
	th := CreateThread("worker", 4, func(t *Thread) { t.EventLoop() })
	require.NotNil(t, th)
	defer th.Shutdown()

	assert.Nil(t, NewNotification(nil, func(any) {}, nil))
	assert.Nil(t, NewNotification(th, nil, nil))
}

func TestTriggerRunsCallbackOnThread(t *testing.T) {
	th := CreateThread("worker", 8, func(t *Thread) { t.EventLoop() })
	require.NotNil(t, th)
	defer th.Shutdown()

	ran := make(chan any, 1)
	n := NewNotification(th, func(ctx any) { ran <- ctx }, "ctx")
	require.NotNil(t, n)

	n.Trigger()
	select {
	case got := <-ran:
		assert.Equal(t, "ctx", got)
	case <-time.After(2 * time.Second):
		t.Fatal("notification callback never ran")
	}
}

func TestTriggersCoalesceIntoOneDelivery(t *testing.T) {
	// The loop is gated so both triggers land before the mailbox drains.
	start := make(chan struct{})
	th := CreateThread("worker", 8, func(t *Thread) {
		<-start
		t.EventLoop()
	})
	require.NotNil(t, th)
	defer th.Shutdown()

	var calls atomic.Int32
	done := make(chan struct{}, 1)
	n := NewNotification(th, func(any) {
		calls.Add(1)
		done <- struct{}{}
	}, nil)
	require.NotNil(t, n)

	n.Trigger()
	n.Trigger()
	n.Trigger()
	close(start)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("coalesced delivery never arrived")
	}
	// Drain any further dispatches before counting.
	probe := make(chan struct{}, 1)
	require.True(t, th.PostCallback(func(any) { probe <- struct{}{} }, nil))
	<-probe
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelSuppressesQueuedDelivery(t *testing.T) {
	start := make(chan struct{})
	th := CreateThread("worker", 8, func(t *Thread) {
		<-start
		t.EventLoop()
	})
	require.NotNil(t, th)
	defer th.Shutdown()

	var calls atomic.Int32
	ran := make(chan struct{}, 4)
	n := NewNotification(th, func(any) {
		calls.Add(1)
		ran <- struct{}{}
	}, nil)
	require.NotNil(t, n)

	n.Trigger()
	n.Cancel()
	close(start)

	// The cancelled delivery still passes through the mailbox; wait for
	// the dispatcher to get past it.
	probe := make(chan struct{}, 1)
	require.True(t, th.PostCallback(func(any) { probe <- struct{}{} }, nil))
	<-probe
	assert.Equal(t, int32(0), calls.Load())

	// A cancel resets to idle, so the next trigger delivers again.
	n.Trigger()
	select {
	case <-ran:
		assert.Equal(t, int32(1), calls.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("re-trigger after cancel never delivered")
	}
}

func TestDeleteWhileQueuedSkipsCallback(t *testing.T) {
	start := make(chan struct{})
	th := CreateThread("worker", 8, func(t *Thread) {
		<-start
		t.EventLoop()
	})
	require.NotNil(t, th)
	defer th.Shutdown()

	var calls atomic.Int32
	n := NewNotification(th, func(any) { calls.Add(1) }, nil)
	require.NotNil(t, n)

	n.Trigger()
	n.Delete()
	close(start)

	probe := make(chan struct{}, 1)
	require.True(t, th.PostCallback(func(any) { probe <- struct{}{} }, nil))
	<-probe
	assert.Equal(t, int32(0), calls.Load())

	// Triggering a deleted notification is a no-op.
	n.Trigger()
	require.True(t, th.PostCallback(func(any) { probe <- struct{}{} }, nil))
	<-probe
	assert.Equal(t, int32(0), calls.Load())
}

func TestDeleteWhileIdleIsImmediate(t *testing.T) {
	th := CreateThread("worker", 4, func(t *Thread) { t.EventLoop() })
	require.NotNil(t, th)
	defer th.Shutdown()

	var calls atomic.Int32
	n := NewNotification(th, func(any) { calls.Add(1) }, nil)
	require.NotNil(t, n)

	n.Delete()
	n.Trigger()

	probe := make(chan struct{}, 1)
	require.True(t, th.PostCallback(func(any) { probe <- struct{}{} }, nil))
	<-probe
	assert.Equal(t, int32(0), calls.Load())
}

func TestNilNotificationIsInert(t *testing.T) {
	var n *Notification
	n.Trigger()
	n.Cancel()
	n.Delete()
}
