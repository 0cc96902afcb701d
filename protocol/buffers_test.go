package protocol

import "testing"

func drainFifo(f *FifoBuffer) []byte {
	var got []byte
	for {
		b, err := f.ReadByte()
		if err != nil {
			return got
		}
		got = append(got, b)
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if _, err := fifo.ReadByte(); err != ErrFifoEmpty {
		t.Errorf("New FIFO should be empty, got %v", err)
	}

	written := fifo.Write([]byte("C:1:SW;"))
	if written != 7 {
		t.Errorf("Expected to write 7 bytes, wrote %d", written)
	}
	if err := fifo.WriteByte('C'); err != nil {
		t.Errorf("WriteByte failed: %v", err)
	}

	b, err := fifo.ReadByte()
	if err != nil || b != 'C' {
		t.Errorf("ReadByte = %q, %v; want 'C'", b, err)
	}
	if got := string(drainFifo(fifo)); got != ":1:SW;C" {
		t.Errorf("Expected remaining bytes %q, got %q", ":1:SW;C", got)
	}

	fifo.Write([]byte("junk"))
	fifo.Reset()
	if _, err := fifo.ReadByte(); err != ErrFifoEmpty {
		t.Errorf("Expected ErrFifoEmpty after reset, got %v", err)
	}
	if fifo.Dropped() != 0 {
		t.Errorf("Expected no dropped bytes, got %d", fifo.Dropped())
	}
}

func TestFifoBufferFull(t *testing.T) {
	fifo := NewFifoBuffer(10)

	bigData := make([]byte, 12)
	written := fifo.Write(bigData)
	if written != 9 { // one slot reserved
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}
	if fifo.Dropped() != 3 {
		t.Errorf("Expected 3 dropped bytes, got %d", fifo.Dropped())
	}

	if err := fifo.WriteByte('x'); err != ErrFifoFull {
		t.Errorf("Expected ErrFifoFull, got %v", err)
	}
	if fifo.Dropped() != 4 {
		t.Errorf("Expected 4 dropped bytes, got %d", fifo.Dropped())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})

	fifo.ReadByte()
	fifo.ReadByte()

	written := fifo.Write([]byte{5, 6})
	if written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	got := drainFifo(fifo)
	if string(got) != string([]byte{3, 4, 5, 6}) {
		t.Errorf("Wrap-around data mismatch: got %v", got)
	}
}
