// File: internal/goid/goid.go
// Package goid resolves the current goroutine's ID.
// Author: momentics <momentics@gmail.com>
//
// The ID is parsed from the first line of the goroutine's stack header
// ("goroutine N [running]:"). It is used only for identity comparison in
// the self-send deadlock check; the value itself carries no meaning.

package goid

import "runtime"

// Current returns the calling goroutine's ID.
func Current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Skip the "goroutine " prefix.
	const prefix = len("goroutine ")
	var id uint64
	for i := prefix; i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
