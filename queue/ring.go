// FILE: lixenwraith/qlog/queue/ring.go
package queue

// Ring is a fixed-capacity byte ring with read and write cursors.
// One slot always stays free so that r == w means empty and never full.
// It is not safe for concurrent use; Writer guards it with its mutex.
type Ring struct {
	buf []byte
	r   int
	w   int
}

// NewRing creates a ring able to hold capacity-1 pending bytes.
func NewRing(capacity int) Ring {
	return Ring{buf: make([]byte, capacity)}
}

// Cap returns the physical capacity of the ring.
func (rb *Ring) Cap() int {
	return len(rb.buf)
}

// Len returns the number of pending (unread) bytes.
func (rb *Ring) Len() int {
	if rb.w >= rb.r {
		return rb.w - rb.r
	}
	return len(rb.buf) + rb.w - rb.r
}

// Available returns how many bytes can be appended without growing.
func (rb *Ring) Available() int {
	if len(rb.buf) == 0 {
		return 0
	}
	return len(rb.buf) - rb.Len() - 1
}

// Spans returns the pending region as up to two slices.
// The second slice is non-nil only when the pending bytes wrap around
// the physical end of the buffer.
func (rb *Ring) Spans() (first, second []byte) {
	if rb.w >= rb.r {
		return rb.buf[rb.r:rb.w], nil
	}
	return rb.buf[rb.r:], rb.buf[:rb.w]
}

// Append copies p to the tail of the ring. It reports false, leaving the
// ring untouched, when p does not fit into the available space.
func (rb *Ring) Append(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if len(p) > rb.Available() {
		return false
	}
	n := copy(rb.buf[rb.w:], p)
	if n < len(p) {
		n += copy(rb.buf, p[n:])
	}
	rb.w = (rb.w + n) % len(rb.buf)
	return true
}

// Consume copies up to len(dst) pending bytes into dst and advances the
// read cursor past them.
func (rb *Ring) Consume(dst []byte) int {
	first, second := rb.Spans()
	n := copy(dst, first)
	if n == len(first) && second != nil {
		n += copy(dst[n:], second)
	}
	if n == 0 {
		return 0
	}
	rb.r = (rb.r + n) % len(rb.buf)
	return n
}
