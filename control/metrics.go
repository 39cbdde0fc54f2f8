// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for the messaging layer.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a lock-free increment-only metric handle. The zero handle
// (a nil pointer) swallows updates so callers without a registry pay
// nothing for instrumentation.
type Counter struct {
	v atomic.Int64
}

// Inc adds one to the counter.
func (c *Counter) Inc() {
	if c != nil {
		c.v.Add(1)
	}
}

// Add adds delta to the counter.
func (c *Counter) Add(delta int64) {
	if c != nil {
		c.v.Add(delta)
	}
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	if c == nil {
		return 0
	}
	return c.v.Load()
}

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	if mr == nil {
		return
	}
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Counter registers (or returns the existing) counter under key.
// A nil registry yields a nil handle, which is safe to use.
func (mr *MetricsRegistry) Counter(key string) *Counter {
	if mr == nil {
		return nil
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok := mr.metrics[key].(*Counter); ok {
		return c
	}
	c := &Counter{}
	mr.metrics[key] = c
	mr.updated = time.Now()
	return c
}

// GetSnapshot returns the latest metrics. Counter handles are resolved
// to their current values.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	if mr == nil {
		return nil
	}
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		if c, ok := v.(*Counter); ok {
			out[k] = c.Value()
			continue
		}
		out[k] = v
	}
	return out
}
