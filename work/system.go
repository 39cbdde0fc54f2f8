// File: work/system.go
// Package work provides the process-wide system queues.
// Author: momentics <momentics@gmail.com>

package work

import "sync"

// The system queues mirror the firmware convention of one high
// priority, one low priority and one file-write queue shared by the
// whole process.
var (
	systemOnce sync.Once
	systemHi   *Queue
	systemLo   *Queue
	systemFS   *Queue
)

// InitSystemQueues constructs the three system queues. The first call
// wins; later calls, including ones with different options, are no-ops.
func InitSystemQueues(opts ...Option) {
	systemOnce.Do(func() {
		systemHi = NewQueue("wq_hi", opts...)
		systemLo = NewQueue("wq_lo", opts...)
		systemFS = NewQueue("wq_fs", opts...)
	})
}

// HighPriority returns the system high priority queue.
func HighPriority() *Queue {
	InitSystemQueues()
	return systemHi
}

// LowPriority returns the system low priority queue.
func LowPriority() *Queue {
	InitSystemQueues()
	return systemLo
}

// FileWrite returns the system file-write queue.
func FileWrite() *Queue {
	InitSystemQueues()
	return systemFS
}
