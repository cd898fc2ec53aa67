package containers

const minDequeCap = 8

// Deque is a double-ended queue backed by a ring buffer. It doubles its
// buffer when full and never shrinks.
type Deque[E any] struct {
	buf  []E
	head int
	n    int
}

// NewDeque creates a Deque with room for capacity elements.
func NewDeque[E any](capacity int) *Deque[E] {
	if capacity < minDequeCap {
		capacity = minDequeCap
	}
	return &Deque[E]{buf: make([]E, capacity)}
}

// PushBack appends e at the back.
func (d *Deque[E]) PushBack(e E) {
	d.grow()
	d.buf[(d.head+d.n)%len(d.buf)] = e
	d.n++
}

// PushFront prepends e at the front.
func (d *Deque[E]) PushFront(e E) {
	d.grow()
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = e
	d.n++
}

// PopFront removes and returns the front element.
func (d *Deque[E]) PopFront() (E, bool) {
	var zero E
	if d.n == 0 {
		return zero, false
	}
	e := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.n--
	return e, true
}

// PopBack removes and returns the back element.
func (d *Deque[E]) PopBack() (E, bool) {
	var zero E
	if d.n == 0 {
		return zero, false
	}
	i := (d.head + d.n - 1) % len(d.buf)
	e := d.buf[i]
	d.buf[i] = zero
	d.n--
	return e, true
}

// Front returns the front element without removing it.
func (d *Deque[E]) Front() (E, bool) {
	if d.n == 0 {
		var zero E
		return zero, false
	}
	return d.buf[d.head], true
}

// Back returns the back element without removing it.
func (d *Deque[E]) Back() (E, bool) {
	if d.n == 0 {
		var zero E
		return zero, false
	}
	return d.buf[(d.head+d.n-1)%len(d.buf)], true
}

// At returns the i-th element counting from the front. It panics if i is
// out of range.
func (d *Deque[E]) At(i int) E {
	if i < 0 || i >= d.n {
		panic("containers: deque index out of range")
	}
	return d.buf[(d.head+i)%len(d.buf)]
}

// Len returns the number of elements.
func (d *Deque[E]) Len() int {
	return d.n
}

// Cap returns the size of the ring buffer.
func (d *Deque[E]) Cap() int {
	return len(d.buf)
}

// Clear removes all elements and keeps the ring buffer.
func (d *Deque[E]) Clear() {
	clear(d.buf)
	d.head = 0
	d.n = 0
}

func (d *Deque[E]) grow() {
	if d.n < len(d.buf) {
		return
	}
	size := len(d.buf) * 2
	if size < minDequeCap {
		size = minDequeCap
	}
	buf := make([]E, size)
	// unroll the ring so head lands at index 0
	if d.n > 0 {
		k := copy(buf, d.buf[d.head:])
		copy(buf[k:], d.buf[:d.head])
	}
	d.buf = buf
	d.head = 0
}
