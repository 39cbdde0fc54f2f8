// File: ring/ring.go
// Package ring implements a byte ring buffer over a caller-owned region.
// Author: momentics <momentics@gmail.com>
//
// Buffer is addressed by monotonically increasing read/write cursors;
// the physical offset is cursor mod capacity, so occupied and free byte
// counts are plain cursor subtraction and never need an empty/full flag.
// No operation blocks and none is safe for concurrent use without
// external locking; higher layers wrap calls in a critical section.

package ring

// Buffer is a fixed-capacity byte ring. It owns no memory: Init binds it
// to a caller-provided region.
type Buffer struct {
	data []byte
	rd   uint64
	wr   uint64
}

// New binds a fresh Buffer to data. Returns nil when data is empty.
func New(data []byte) *Buffer {
	b := &Buffer{}
	if !b.Init(data) {
		return nil
	}
	return b
}

// Init binds the buffer to data and zeroes the cursors. Returns false
// when the receiver is nil or data is empty.
func (b *Buffer) Init(data []byte) bool {
	if b == nil || len(data) == 0 {
		return false
	}
	b.data = data
	b.rd = 0
	b.wr = 0
	return true
}

// Bytes returns the number of occupied bytes.
func (b *Buffer) Bytes() int {
	return int(b.wr - b.rd)
}

// Space returns the number of free bytes.
func (b *Buffer) Space() int {
	return len(b.data) - b.Bytes()
}

// IsFull reports whether no free byte remains.
func (b *Buffer) IsFull() bool {
	return b.Space() == 0
}

// IsEmpty reports whether no occupied byte remains.
func (b *Buffer) IsEmpty() bool {
	return b.Bytes() == 0
}

// Reset zeroes both cursors, discarding all buffered bytes.
func (b *Buffer) Reset() {
	if b == nil {
		return
	}
	b.rd = 0
	b.wr = 0
}

// Put copies data into the buffer, clamped to the free space, splitting
// into two copies across the wrap point when needed. Returns the number
// of bytes actually written.
func (b *Buffer) Put(data []byte) int {
	if b == nil || b.data == nil || len(data) == 0 {
		return 0
	}
	n := b.Space()
	if n > len(data) {
		n = len(data)
	}
	offset := int(b.wr % uint64(len(b.data)))
	tail := len(b.data) - offset
	if tail >= n {
		copy(b.data[offset:], data[:n])
	} else {
		copy(b.data[offset:], data[:tail])
		copy(b.data, data[tail:n])
	}
	b.wr += uint64(n)
	return n
}

// Get copies up to len(out) occupied bytes into out and advances the
// read cursor. Returns the number of bytes actually read.
func (b *Buffer) Get(out []byte) int {
	if b == nil || b.data == nil || len(out) == 0 {
		return 0
	}
	n := b.peek(out)
	b.rd += uint64(n)
	return n
}

// Peek is Get without advancing the read cursor.
func (b *Buffer) Peek(out []byte) int {
	if b == nil || b.data == nil || len(out) == 0 {
		return 0
	}
	return b.peek(out)
}

// peek copies up to len(out) bytes starting at the read cursor.
func (b *Buffer) peek(out []byte) int {
	n := b.Bytes()
	if n > len(out) {
		n = len(out)
	}
	offset := int(b.rd % uint64(len(b.data)))
	tail := len(b.data) - offset
	if tail >= n {
		copy(out, b.data[offset:offset+n])
	} else {
		copy(out, b.data[offset:])
		copy(out[tail:], b.data[:n-tail])
	}
	return n
}

// Skip advances the read cursor by min(n, occupied), discarding bytes.
func (b *Buffer) Skip(n int) {
	if b == nil || n <= 0 {
		return
	}
	occupied := b.Bytes()
	if occupied < n {
		n = occupied
	}
	b.rd += uint64(n)
}

// Search scans forward from the read cursor for c. On a match the read
// cursor is set to the match position when keep is true, or one past it
// otherwise, and Search returns true. On a miss the read cursor catches
// up to the write cursor, discarding all buffered bytes.
func (b *Buffer) Search(c byte, keep bool) bool {
	if b == nil || b.data == nil {
		return false
	}
	offset := int(b.rd % uint64(len(b.data)))
	for pos := b.rd; pos < b.wr; pos++ {
		if b.data[offset] == c {
			if keep {
				b.rd = pos
			} else {
				b.rd = pos + 1
			}
			return true
		}
		offset++
		if offset == len(b.data) {
			offset = 0
		}
	}
	b.rd = b.wr
	return false
}
