// Package work
// Author: momentics <momentics@gmail.com>
//
// Deferred-execution work items and FIFO work queues, each queue backed
// by one dedicated worker goroutine. Items carry run and complete
// callbacks and an owning-queue back-reference; moving an item between
// queues, cancelling it, and draining a queue on shutdown are all O(1)
// link updates under a shared critical section.
package work
