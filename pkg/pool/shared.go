package pool

import "sync"

// SharedStorage is a LIFO stack guarded by a mutex, safe for concurrent
// use. Every operation holds the mutex for its whole duration.
//
// A panic that escapes a critical section marks the storage poisoned; the
// mutex is still released. Take and Give keep working on poisoned storage
// and report each recovery to the hook. Len returns the count with an
// error wrapping ErrPoisoned, and Fill refuses, until ClearPoison is
// called.
type SharedStorage[T any] struct {
	mu       sync.Mutex
	items    []T
	poisoned bool
	closed   bool
	hook     func(op string)
}

// NewSharedStorage creates an empty SharedStorage.
func NewSharedStorage[T any]() *SharedStorage[T] {
	return &SharedStorage[T]{}
}

// SetRecoveryHook registers fn as the recovery hook. Passing nil removes
// it. fn runs after the mutex is released.
func (s *SharedStorage[T]) SetRecoveryHook(fn func(op string)) {
	s.mu.Lock()
	s.hook = fn
	s.mu.Unlock()
}

// Take pops the most recently given value.
func (s *SharedStorage[T]) Take() (T, bool) {
	var (
		v  T
		ok bool
	)
	recovered, hook := s.critical(func() {
		n := len(s.items)
		if s.closed || n == 0 {
			return
		}
		var zero T
		v = s.items[n-1]
		s.items[n-1] = zero
		s.items = s.items[:n-1]
		ok = true
	})
	if recovered && hook != nil {
		hook(OpTake)
	}
	return v, ok
}

// Give pushes v. It returns false once the storage is closed.
func (s *SharedStorage[T]) Give(v T) bool {
	var kept bool
	recovered, hook := s.critical(func() {
		if s.closed {
			return
		}
		s.items = append(s.items, v)
		kept = true
	})
	if recovered && hook != nil {
		hook(OpGive)
	}
	return kept
}

// Len returns the number of spares. On poisoned storage the count is
// still returned, together with an error wrapping ErrPoisoned.
func (s *SharedStorage[T]) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, unavailable(ErrClosed, OpLen, "closed")
	}
	if s.poisoned {
		return len(s.items), unavailable(ErrPoisoned, OpLen, "poisoned")
	}
	return len(s.items), nil
}

// Fill pushes n values built by newFn while holding the mutex. On
// poisoned or closed storage nothing is inserted. If newFn panics, the
// values built so far stay in the stack, the storage becomes poisoned and
// the panic propagates.
func (s *SharedStorage[T]) Fill(n int, newFn func() T) error {
	if n <= 0 {
		return nil
	}

	var err error
	s.critical(func() {
		switch {
		case s.closed:
			err = unavailable(ErrClosed, OpFill, "closed")
			return
		case s.poisoned:
			err = unavailable(ErrPoisoned, OpFill, "poisoned")
			return
		}
		s.items = growStack(s.items, n)
		for i := 0; i < n; i++ {
			s.items = append(s.items, newFn())
		}
	})
	return err
}

// Close drops all spares and refuses further gives.
func (s *SharedStorage[T]) Close() {
	s.mu.Lock()
	s.items = nil
	s.closed = true
	s.mu.Unlock()
}

// Poisoned reports whether a panic escaped a critical section since the
// last ClearPoison.
func (s *SharedStorage[T]) Poisoned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poisoned
}

// ClearPoison resets the poisoned flag. The spares are kept as they are.
func (s *SharedStorage[T]) ClearPoison() {
	s.mu.Lock()
	s.poisoned = false
	s.mu.Unlock()
}

// critical runs fn with the mutex held. If fn panics the storage is
// poisoned before the mutex is released and the panic continues. It
// reports whether the storage was already poisoned on entry, along with
// the hook to notify.
func (s *SharedStorage[T]) critical(fn func()) (recovered bool, hook func(string)) {
	s.mu.Lock()
	completed := false
	defer func() {
		if !completed {
			s.poisoned = true
		}
		s.mu.Unlock()
	}()

	recovered = s.poisoned
	hook = s.hook
	fn()
	completed = true
	return recovered, hook
}
