// File: api/lifecycle.go
// Package api defines the unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>

package api

// GracefulShutdown unifies orderly teardown across components that own a
// goroutine. Shutdown stops the component, waits for its worker to exit
// and releases resources; it returns an error when the caller may not
// wait (for example a thread shutting itself down).
type GracefulShutdown interface {
	Shutdown() error
}
