// uartx/ringbuffer.go

package uartx

// FIFODepth is the number of slots in each hardware FIFO.
const FIFODepth = 16

// RingBuffer is a fixed-capacity byte FIFO. The explicit count is the only
// occupancy signal, since head == tail holds both when empty and when full.
type RingBuffer struct {
	buf   [FIFODepth]byte
	head  int // next slot to write
	tail  int // next slot to read
	count int
}

// Size returns the total capacity of the buffer in bytes.
func (rb *RingBuffer) Size() int {
	return FIFODepth
}

// Used returns how many bytes in buffer have been used.
func (rb *RingBuffer) Used() int {
	return rb.count
}

// Free returns the number of unused slots.
func (rb *RingBuffer) Free() int {
	return FIFODepth - rb.count
}

// Empty reports whether no bytes are stored.
func (rb *RingBuffer) Empty() bool { return rb.count == 0 }

// Full reports whether every slot is used.
func (rb *RingBuffer) Full() bool { return rb.count == FIFODepth }

// Put stores a byte in the buffer. If the buffer is already full, it returns false.
func (rb *RingBuffer) Put(val byte) bool {
	if rb.Full() {
		return false
	}
	rb.buf[rb.head] = val
	rb.head = (rb.head + 1) % FIFODepth
	rb.count++
	return true
}

// Get returns a byte from the buffer. If the buffer is empty, it returns (0, false).
func (rb *RingBuffer) Get() (byte, bool) {
	if rb.Empty() {
		return 0, false
	}
	v := rb.buf[rb.tail]
	rb.tail = (rb.tail + 1) % FIFODepth
	rb.count--
	return v, true
}

// Discard drops up to n bytes from the read side and returns how many were
// dropped.
func (rb *RingBuffer) Discard(n int) int {
	if n > rb.count {
		n = rb.count
	}
	if n <= 0 {
		return 0
	}
	rb.tail = (rb.tail + n) % FIFODepth
	rb.count -= n
	return n
}

// Peek returns the byte at position i counted from the read side without
// consuming it.
func (rb *RingBuffer) Peek(i int) (byte, bool) {
	if i < 0 || i >= rb.count {
		return 0, false
	}
	return rb.buf[(rb.tail+i)%FIFODepth], true
}

// Clear resets the head and tail pointers to zero.
func (rb *RingBuffer) Clear() {
	rb.head = 0
	rb.tail = 0
	rb.count = 0
}
