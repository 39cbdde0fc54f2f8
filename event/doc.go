// Package event
// Author: momentics <momentics@gmail.com>
//
// Per-thread event mailboxes and the dispatch protocol built on them.
// A Thread is a named dispatcher goroutine owning a bounded Queue of
// api.Event records; Send/TrySend enqueue, Wait dequeues and interprets
// the well-known IDs (timer, callback, notify, quit). Notification is
// the coalescing single-shot "run this callback on thread T" primitive
// delivered through the same mailbox.
package event
