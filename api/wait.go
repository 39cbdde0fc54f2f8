// File: api/wait.go
// Package api defines the timeout conventions shared by all blocking
// operations in hioload-rt.
// Author: momentics <momentics@gmail.com>

package api

import "time"

// Forever blocks without bound. Any negative timeout is treated the same
// way; a zero timeout polls once and never blocks; a positive timeout is
// a relative budget consumed across possibly several retries (elapsed
// time is subtracted between attempts, never re-armed).
const Forever time.Duration = -1
