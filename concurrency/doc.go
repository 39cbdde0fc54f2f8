// Package concurrency
// Author: momentics <momentics@gmail.com>
//
// Blocking primitives underlying hioload-rt: capped counting semaphores
// used both as counting tokens and as bare wake signals, very-short-hold
// critical sections protecting pointer and integer updates, and elapsed
// timers for timeout budgeting across retries.
package concurrency
