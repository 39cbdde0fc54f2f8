// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for the messaging layer.
//
// Provides concurrent-safe state handling primitives including:
//   - Named atomic counters behind a snapshotting registry
//   - Debug hooks and probe registration for queue and pipe state
package control
