// File: api/events.go
// Package api defines the core event record for hioload-rt.
// Author: momentics <momentics@gmail.com>

package api

// EventID identifies the kind of an Event.
type EventID uint32

// Well-known event IDs interpreted by the thread dispatcher.
const (
	// EventNone marks an event slot as empty or already consumed.
	EventNone EventID = iota
	// EventTimer is produced by the external timer-expiry feed.
	EventTimer
	// EventCallback carries a Callback in Param1 and its argument in Param2.
	EventCallback
	// EventNotify carries a *event.Notification in Param1.
	EventNotify
	// EventQuit asks the receiving thread to leave its event loop;
	// Param1 may carry a semaphore released once the event is seen.
	EventQuit
)

// EventUser is the first ID available for application-defined events.
// IDs below it are reserved for the dispatcher.
const EventUser EventID = 0x100

// Event is the fixed-shape asynchronous message delivered to a thread's
// mailbox. The three parameter words carry pointers or small values whose
// meaning depends on ID; events are copied by value into the mailbox and
// must not carry ownership of large payloads.
type Event struct {
	ID     EventID
	Param1 any
	Param2 any
	Param3 any
}

// Callback is the unit of deferred invocation used by callback events,
// notifications and work items. The ctx value is whatever was captured at
// registration time.
type Callback func(ctx any)
