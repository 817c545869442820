package tracker

// RSSIRing is a bounded FIFO of raw RSSI samples; the oldest sample is
// evicted once the capacity is reached.
type RSSIRing struct {
	buf   []int
	pos   int
	count int
}

// NewRSSIRing creates a ring with the given capacity.
func NewRSSIRing(capacity int) *RSSIRing {
	return &RSSIRing{buf: make([]int, capacity)}
}

// Push appends a sample, evicting the oldest beyond capacity.
func (r *RSSIRing) Push(v int) {
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored samples in arrival order.
func (r *RSSIRing) Values() []int {
	if r.count == 0 {
		return nil
	}
	out := make([]int, r.count)
	if r.count < len(r.buf) {
		copy(out, r.buf[:r.count])
	} else {
		n := copy(out, r.buf[r.pos:])
		copy(out[n:], r.buf[:r.pos])
	}
	return out
}

// Last returns the most recent sample, or 0 if empty.
func (r *RSSIRing) Last() int {
	if r.count == 0 {
		return 0
	}
	return r.buf[(r.pos-1+len(r.buf))%len(r.buf)]
}

// Len returns the number of stored samples.
func (r *RSSIRing) Len() int {
	return r.count
}

// Clone returns an independent copy, used when snapshotting devices for
// rendering.
func (r *RSSIRing) Clone() *RSSIRing {
	cp := &RSSIRing{
		buf:   make([]int, len(r.buf)),
		pos:   r.pos,
		count: r.count,
	}
	copy(cp.buf, r.buf)
	return cp
}
