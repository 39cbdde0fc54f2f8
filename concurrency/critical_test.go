// File: concurrency/critical_test.go
// Author: momentics <momentics@gmail.com>

package concurrency

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCriticalMutualExclusion(t *testing.T) {
	cs := NewCritical()

	const goroutines = 8
	const iterations = 2000
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				cs.Enter()
				counter++
				cs.Exit()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*iterations, counter)
}

func TestCriticalDefaultShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}
