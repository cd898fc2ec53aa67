package containers

import "iter"

// Vec is a growable array.
type Vec[E any] struct {
	items []E
}

// NewVec creates a Vec with room for capacity elements.
func NewVec[E any](capacity int) *Vec[E] {
	return &Vec[E]{items: make([]E, 0, capacity)}
}

// Push appends e.
func (v *Vec[E]) Push(e E) {
	v.items = append(v.items, e)
}

// Extend appends all of es.
func (v *Vec[E]) Extend(es ...E) {
	v.items = append(v.items, es...)
}

// Pop removes and returns the last element.
func (v *Vec[E]) Pop() (E, bool) {
	var zero E
	if len(v.items) == 0 {
		return zero, false
	}
	last := len(v.items) - 1
	e := v.items[last]
	v.items[last] = zero
	v.items = v.items[:last]
	return e, true
}

// At returns the element at index i. It panics if i is out of range.
func (v *Vec[E]) At(i int) E {
	return v.items[i]
}

// Set replaces the element at index i. It panics if i is out of range.
func (v *Vec[E]) Set(i int, e E) {
	v.items[i] = e
}

// Len returns the number of elements.
func (v *Vec[E]) Len() int {
	return len(v.items)
}

// Cap returns the capacity of the backing array.
func (v *Vec[E]) Cap() int {
	return cap(v.items)
}

// Reserve makes room for at least n more elements without reallocating.
func (v *Vec[E]) Reserve(n int) {
	if cap(v.items)-len(v.items) >= n {
		return
	}
	grown := make([]E, len(v.items), len(v.items)+n)
	copy(grown, v.items)
	v.items = grown
}

// Slice returns the elements as a slice sharing the backing array. The
// slice is only valid until the next mutation.
func (v *Vec[E]) Slice() []E {
	return v.items
}

// All iterates over index/element pairs.
func (v *Vec[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, e := range v.items {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Clear removes all elements and keeps the backing array. Elements are
// zeroed so they do not keep referenced memory alive.
func (v *Vec[E]) Clear() {
	clear(v.items)
	v.items = v.items[:0]
}
