package containers

import "iter"

// HashMap is a map wrapper whose Clear keeps the allocated buckets.
type HashMap[K comparable, V any] struct {
	m map[K]V
}

// NewHashMap creates a HashMap sized for hint entries.
func NewHashMap[K comparable, V any](hint int) *HashMap[K, V] {
	return &HashMap[K, V]{m: make(map[K]V, hint)}
}

// Insert sets k to v and returns the previous value, if any.
func (h *HashMap[K, V]) Insert(k K, v V) (V, bool) {
	if h.m == nil {
		h.m = make(map[K]V)
	}
	old, ok := h.m[k]
	h.m[k] = v
	return old, ok
}

// Get returns the value stored under k.
func (h *HashMap[K, V]) Get(k K) (V, bool) {
	v, ok := h.m[k]
	return v, ok
}

// Delete removes k and reports whether it was present.
func (h *HashMap[K, V]) Delete(k K) bool {
	if _, ok := h.m[k]; !ok {
		return false
	}
	delete(h.m, k)
	return true
}

// Contains reports whether k is present.
func (h *HashMap[K, V]) Contains(k K) bool {
	_, ok := h.m[k]
	return ok
}

// Len returns the number of entries.
func (h *HashMap[K, V]) Len() int {
	return len(h.m)
}

// All iterates over entries in unspecified order.
func (h *HashMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range h.m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Clear removes all entries. The runtime keeps the buckets for reuse.
func (h *HashMap[K, V]) Clear() {
	clear(h.m)
}
