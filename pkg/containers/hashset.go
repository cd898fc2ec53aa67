package containers

import "iter"

// HashSet is a set of comparable values.
type HashSet[E comparable] struct {
	m map[E]struct{}
}

// NewHashSet creates a HashSet sized for hint members.
func NewHashSet[E comparable](hint int) *HashSet[E] {
	return &HashSet[E]{m: make(map[E]struct{}, hint)}
}

// Insert adds e and reports whether it was not already a member.
func (s *HashSet[E]) Insert(e E) bool {
	if s.m == nil {
		s.m = make(map[E]struct{})
	}
	if _, ok := s.m[e]; ok {
		return false
	}
	s.m[e] = struct{}{}
	return true
}

// Contains reports whether e is a member.
func (s *HashSet[E]) Contains(e E) bool {
	_, ok := s.m[e]
	return ok
}

// Remove deletes e and reports whether it was a member.
func (s *HashSet[E]) Remove(e E) bool {
	if _, ok := s.m[e]; !ok {
		return false
	}
	delete(s.m, e)
	return true
}

// Len returns the number of members.
func (s *HashSet[E]) Len() int {
	return len(s.m)
}

// All iterates over members in unspecified order.
func (s *HashSet[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for e := range s.m {
			if !yield(e) {
				return
			}
		}
	}
}

// Clear removes all members and keeps the buckets.
func (s *HashSet[E]) Clear() {
	clear(s.m)
}
