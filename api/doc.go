// Package api
// Author: momentics <momentics@gmail.com>
//
// Shared contracts and value types for hioload-rt: the event record and
// its well-known IDs, the callback form used by events, notifications and
// work items, error taxonomy, timeout conventions, and the graceful
// shutdown contract. The package depends only on the standard library so
// every other package can depend on it.
package api
