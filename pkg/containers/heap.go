package containers

import "cmp"

// Heap is a binary max-heap: Pop returns the largest element first.
type Heap[E cmp.Ordered] struct {
	items []E
}

// NewHeap creates a Heap with room for capacity elements.
func NewHeap[E cmp.Ordered](capacity int) *Heap[E] {
	return &Heap[E]{items: make([]E, 0, capacity)}
}

// Push adds e.
func (h *Heap[E]) Push(e E) {
	h.items = append(h.items, e)
	h.up(len(h.items) - 1)
}

// Pop removes and returns the largest element.
func (h *Heap[E]) Pop() (E, bool) {
	var zero E
	n := len(h.items)
	if n == 0 {
		return zero, false
	}
	top := h.items[0]
	h.items[0] = h.items[n-1]
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.down(0)
	}
	return top, true
}

// Peek returns the largest element without removing it.
func (h *Heap[E]) Peek() (E, bool) {
	if len(h.items) == 0 {
		var zero E
		return zero, false
	}
	return h.items[0], true
}

// Len returns the number of elements.
func (h *Heap[E]) Len() int {
	return len(h.items)
}

// Cap returns the capacity of the backing array.
func (h *Heap[E]) Cap() int {
	return cap(h.items)
}

// Clear removes all elements and keeps the backing array. Removed
// elements are zeroed.
func (h *Heap[E]) Clear() {
	clear(h.items)
	h.items = h.items[:0]
}

func (h *Heap[E]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if cmp.Compare(h.items[i], h.items[parent]) <= 0 {
			return
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *Heap[E]) down(i int) {
	n := len(h.items)
	for {
		largest := i
		l, r := 2*i+1, 2*i+2
		if l < n && cmp.Compare(h.items[l], h.items[largest]) > 0 {
			largest = l
		}
		if r < n && cmp.Compare(h.items[r], h.items[largest]) > 0 {
			largest = r
		}
		if largest == i {
			return
		}
		h.items[i], h.items[largest] = h.items[largest], h.items[i]
		i = largest
	}
}
