package pool

// LocalStorage is a slice-backed LIFO stack without locking. It must only
// be used by one goroutine at a time. All operations succeed.
type LocalStorage[T any] struct {
	items  []T
	closed bool
}

// NewLocalStorage creates an empty LocalStorage.
func NewLocalStorage[T any]() *LocalStorage[T] {
	return &LocalStorage[T]{}
}

// Take pops the most recently given value.
func (s *LocalStorage[T]) Take() (T, bool) {
	var zero T
	n := len(s.items)
	if s.closed || n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

// Give pushes v. It returns false once the storage is closed.
func (s *LocalStorage[T]) Give(v T) bool {
	if s.closed {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Len returns the number of spares. The error is always nil.
func (s *LocalStorage[T]) Len() (int, error) {
	return len(s.items), nil
}

// Fill pushes n values built by newFn. It does nothing once closed. The
// error is always nil.
func (s *LocalStorage[T]) Fill(n int, newFn func() T) error {
	if s.closed || n <= 0 {
		return nil
	}
	s.items = growStack(s.items, n)
	for i := 0; i < n; i++ {
		s.items = append(s.items, newFn())
	}
	return nil
}

// Close drops all spares and refuses further gives.
func (s *LocalStorage[T]) Close() {
	s.items = nil
	s.closed = true
}

func growStack[T any](items []T, n int) []T {
	if cap(items)-len(items) >= n {
		return items
	}
	grown := make([]T, len(items), len(items)+n)
	copy(grown, items)
	return grown
}
