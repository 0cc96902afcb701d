package protocol

import (
	"errors"
	"sync"
)

var (
	// ErrFifoEmpty is returned by ReadByte when no byte is buffered
	ErrFifoEmpty = errors.New("fifo empty")

	// ErrFifoFull is returned by WriteByte when the buffer has no free slot
	ErrFifoFull = errors.New("fifo full")
)

// FifoBuffer is a circular byte buffer between the serial reader and the
// command engine. One slot is always kept free to tell full from empty.
type FifoBuffer struct {
	mu      sync.Mutex
	buf     []byte
	read    int
	write   int
	size    int
	dropped uint32
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	if capacity < 2 {
		capacity = 2
	}
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// WriteByte appends one byte. A byte arriving while the buffer is full
// is dropped and counted.
func (f *FifoBuffer) WriteByte(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.put(b) {
		f.dropped++
		return ErrFifoFull
	}
	return nil
}

// Write appends as much of data as fits and returns the count stored
func (f *FifoBuffer) Write(data []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	written := 0
	for _, b := range data {
		if !f.put(b) {
			f.dropped += uint32(len(data) - written)
			break
		}
		written++
	}
	return written
}

func (f *FifoBuffer) put(b byte) bool {
	next := (f.write + 1) % f.size
	if next == f.read {
		return false
	}
	f.buf[f.write] = b
	f.write = next
	return true
}

// ReadByte removes and returns the oldest byte
func (f *FifoBuffer) ReadByte() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.read == f.write {
		return 0, ErrFifoEmpty
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, nil
}

// Dropped returns how many bytes were lost to a full buffer
func (f *FifoBuffer) Dropped() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = 0
	f.write = 0
}
