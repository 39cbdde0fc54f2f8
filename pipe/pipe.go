// File: pipe/pipe.go
// Package pipe implements a thread-safe blocking byte pipe.
// Author: momentics <momentics@gmail.com>
//
// A Pipe is a byte ring shared between producer and consumer threads.
// The read/write cores never block; the All variants and the wait
// helpers block on a pair of wake-signal semaphores with a timeout
// budget. Stop wakes every waiter terminally, EOF wakes them while
// leaving buffered bytes readable, and Reset revives a stopped pipe.

package pipe

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/concurrency"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/ring"
)

// EventMask selects which pipe events fire a registered callback.
type EventMask uint32

const (
	// EventRxArrived fires to the reader side on every successful write.
	EventRxArrived EventMask = 1 << iota
	// EventTxComplete fires to the writer side when a read drains the
	// buffer completely.
	EventTxComplete
)

// EventCallback observes pipe events. Callbacks run on the thread that
// produced the event, outside the pipe's critical section, and must not
// re-enter the pipe synchronously in a way that blocks.
type EventCallback func(ev EventMask)

// Pipe is a thread-safe, blocking byte ring buffer with EOF and stop
// semantics and edge-triggered callbacks.
type Pipe struct {
	cs       *concurrency.Critical
	buf      ring.Buffer
	running  bool
	eof      bool
	dataDone bool

	rdAvail *concurrency.Semaphore
	wrAvail *concurrency.Semaphore

	rdMask EventMask
	rdCB   EventCallback
	wrMask EventMask
	wrCB   EventCallback

	clk clock.Clock
	log *zap.Logger

	bytesRead    *control.Counter
	bytesWritten *control.Counter
}

// Option customizes pipe construction.
type Option func(*Pipe)

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipe) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides the clock used for timeout budgeting.
func WithClock(clk clock.Clock) Option {
	return func(p *Pipe) {
		if clk != nil {
			p.clk = clk
		}
	}
}

// WithCritical overrides the critical section protecting cursor state.
func WithCritical(cs *concurrency.Critical) Option {
	return func(p *Pipe) {
		if cs != nil {
			p.cs = cs
		}
	}
}

// WithRegistry publishes bytes-read/bytes-written counters under name.
func WithRegistry(mr *control.MetricsRegistry, name string) Option {
	return func(p *Pipe) {
		p.bytesRead = mr.Counter(name + ".bytes_read")
		p.bytesWritten = mr.Counter(name + ".bytes_written")
	}
}

// Create allocates a pipe with the given buffer capacity.
func Create(capacity int, opts ...Option) (*Pipe, error) {
	if capacity <= 0 {
		return nil, api.ErrInvalidArgument
	}
	p := &Pipe{
		cs:      concurrency.NewCritical(),
		running: true,
		clk:     clock.New(),
		log:     zap.NewNop(),
	}
	p.buf.Init(make([]byte, capacity))
	for _, opt := range opts {
		opt(p)
	}
	// Write side starts signaled: the buffer begins with space available.
	p.wrAvail = concurrency.NewSemaphore(1, 1, concurrency.WithSemaphoreClock(p.clk))
	p.rdAvail = concurrency.NewSemaphore(1, 0, concurrency.WithSemaphoreClock(p.clk))
	return p, nil
}

// SetReaderCallback registers the reader-side callback; only events in
// mask are delivered. Registration is not synchronized against active
// readers and writers and belongs in setup code.
func (p *Pipe) SetReaderCallback(mask EventMask, cb EventCallback) {
	if p == nil {
		return
	}
	p.rdMask = mask
	p.rdCB = cb
}

// SetWriterCallback registers the writer-side callback.
func (p *Pipe) SetWriterCallback(mask EventMask, cb EventCallback) {
	if p == nil {
		return
	}
	p.wrMask = mask
	p.wrCB = cb
}

// Read copies buffered bytes into buf without blocking. It returns the
// byte count, 0 when no data is buffered, or -1 once the pipe has been
// stopped (or EOF was promoted from DataEnd on an empty buffer). A read
// that drains the buffer completely fires the writer's TxComplete
// callback; every successful read releases the write-available signal.
func (p *Pipe) Read(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	if p == nil {
		return -1
	}
	p.cs.Enter()
	if !p.running {
		p.cs.Exit()
		return -1
	}
	occupied := p.buf.Bytes()
	if p.dataDone && occupied == 0 {
		p.eof = true
		p.cs.Exit()
		p.rdAvail.Release()
		p.wrAvail.Release()
		return -1
	}
	n := p.buf.Get(buf)
	p.cs.Exit()
	if n == 0 {
		return 0
	}
	p.bytesRead.Add(int64(n))
	if n == occupied && p.wrCB != nil && p.wrMask&EventTxComplete != 0 {
		p.wrCB(EventTxComplete)
	}
	p.wrAvail.Release()
	return n
}

// Write copies bytes into the pipe without blocking, clamped to the free
// space. It returns the byte count, 0 when the buffer is full, or -1
// when the pipe is stopped or EOF has been set. Any successful write
// fires the reader's RxArrived callback and releases the read-available
// signal.
func (p *Pipe) Write(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	if p == nil {
		return -1
	}
	p.cs.Enter()
	if !p.running || p.eof {
		p.cs.Exit()
		return -1
	}
	n := p.buf.Put(buf)
	p.cs.Exit()
	if n == 0 {
		return 0
	}
	p.bytesWritten.Add(int64(n))
	if p.rdCB != nil && p.rdMask&EventRxArrived != 0 {
		p.rdCB(EventRxArrived)
	}
	p.rdAvail.Release()
	return n
}

// ReadAll reads until buf is filled, the timeout budget is spent, EOF is
// reached, or the pipe fails. Returns the bytes read, or -1 when the
// pipe was stopped.
func (p *Pipe) ReadAll(buf []byte, timeout time.Duration) int {
	if len(buf) == 0 {
		return 0
	}
	if p == nil {
		return -1
	}
	total := 0
	timer := concurrency.NewElapsedTimer(p.clk)
	for {
		n := p.Read(buf[total:])
		if n < 0 {
			return -1
		}
		total += n
		if total == len(buf) || timeout == 0 || p.IsEOF() {
			return total
		}
		if timeout < 0 {
			p.rdAvail.Acquire()
			continue
		}
		wait, ok := timer.Remaining(timeout)
		if !ok || !p.rdAvail.TryAcquire(wait) {
			return total
		}
	}
}

// WriteAll writes until buf is consumed, the timeout budget is spent, or
// the pipe fails. Returns the bytes written, or -1 when the pipe was
// stopped or EOF was set.
func (p *Pipe) WriteAll(buf []byte, timeout time.Duration) int {
	if len(buf) == 0 {
		return 0
	}
	if p == nil {
		return -1
	}
	total := 0
	timer := concurrency.NewElapsedTimer(p.clk)
	for {
		n := p.Write(buf[total:])
		if n < 0 {
			return -1
		}
		total += n
		if total == len(buf) || timeout == 0 {
			return total
		}
		if timeout < 0 {
			p.wrAvail.Acquire()
			continue
		}
		wait, ok := timer.Remaining(timeout)
		if !ok || !p.wrAvail.TryAcquire(wait) {
			return total
		}
	}
}

// ReadAvail returns the number of buffered bytes, or -1 on a nil pipe.
func (p *Pipe) ReadAvail() int {
	if p == nil {
		return -1
	}
	p.cs.Enter()
	n := p.buf.Bytes()
	p.cs.Exit()
	return n
}

// WriteAvail returns the number of free bytes, or -1 on a nil pipe.
func (p *Pipe) WriteAvail() int {
	if p == nil {
		return -1
	}
	p.cs.Enter()
	n := p.buf.Space()
	p.cs.Exit()
	return n
}

// WaitReadAvail blocks until data is buffered, the pipe stops or reaches
// EOF with nothing buffered, or the timeout budget is spent.
func (p *Pipe) WaitReadAvail(timeout time.Duration) bool {
	if p == nil {
		return false
	}
	timer := concurrency.NewElapsedTimer(p.clk)
	for {
		if p.IsStopped() {
			return false
		}
		if p.ReadAvail() > 0 {
			return true
		}
		if p.IsEOF() {
			return false
		}
		if timeout < 0 {
			p.rdAvail.Acquire()
			continue
		}
		wait, ok := timer.Remaining(timeout)
		if !ok || !p.rdAvail.TryAcquire(wait) {
			return false
		}
	}
}

// WaitWriteAvail blocks until space is free, the pipe stops, or the
// timeout budget is spent.
func (p *Pipe) WaitWriteAvail(timeout time.Duration) bool {
	if p == nil {
		return false
	}
	timer := concurrency.NewElapsedTimer(p.clk)
	for {
		if p.IsStopped() {
			return false
		}
		if p.WriteAvail() > 0 {
			return true
		}
		if timeout < 0 {
			p.wrAvail.Acquire()
			continue
		}
		wait, ok := timer.Remaining(timeout)
		if !ok || !p.wrAvail.TryAcquire(wait) {
			return false
		}
	}
}

// Stop terminally fails the pipe: subsequent reads and writes return -1
// and every blocked waiter wakes and observes the stop. Reset revives.
func (p *Pipe) Stop() {
	if p == nil {
		return
	}
	p.cs.Enter()
	p.running = false
	p.wrAvail.Release()
	p.rdAvail.Release()
	p.cs.Exit()
	p.log.Debug("pipe stopped")
}

// IsStopped reports whether Stop has been called since the last Reset.
func (p *Pipe) IsStopped() bool {
	if p == nil {
		return true
	}
	p.cs.Enter()
	stopped := !p.running
	p.cs.Exit()
	return stopped
}

// SetEOF marks end-of-stream: writes fail from now on, buffered bytes
// remain readable, and waiters are woken to observe the condition.
func (p *Pipe) SetEOF() {
	if p == nil {
		return
	}
	p.cs.Enter()
	p.eof = true
	p.wrAvail.Release()
	p.rdAvail.Release()
	p.cs.Exit()
}

// IsEOF reports whether end-of-stream has been marked.
func (p *Pipe) IsEOF() bool {
	if p == nil {
		return false
	}
	p.cs.Enter()
	eof := p.eof
	p.cs.Exit()
	return eof
}

// DataEnd marks that the producer will write no more bytes. Unlike
// SetEOF it lets the consumer drain first: the read that finds the
// buffer empty promotes the marker to EOF and returns -1.
func (p *Pipe) DataEnd() {
	if p == nil {
		return
	}
	p.cs.Enter()
	p.dataDone = true
	p.cs.Exit()
	p.rdAvail.Release()
}

// Reset zeroes the cursors and clears the stop, EOF and data-end marks,
// reviving the pipe for reuse.
func (p *Pipe) Reset() {
	if p == nil {
		return
	}
	p.cs.Enter()
	p.buf.Reset()
	p.running = true
	p.eof = false
	p.dataDone = false
	p.cs.Exit()
}

// Delete stops the pipe and wakes every waiter so no goroutine stays
// parked on a discarded pipe; memory is reclaimed by the collector.
func (p *Pipe) Delete() {
	if p == nil {
		return
	}
	p.Stop()
}
