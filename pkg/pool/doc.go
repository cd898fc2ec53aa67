// Package pool implements generic object-reuse pools. A pool hands out
// mutable values (vectors, maps, sets, strings, deques, heaps or any type
// with a Clear method) from a store of spares instead of allocating fresh
// ones, and takes them back cleared when the caller is done.
//
// Architecture
//
// A Pool[T] is a thin layer over a Storage[T]:
//
//   - LocalStorage: a plain slice used as a LIFO stack. No locking. For
//     pools owned by a single goroutine.
//   - SharedStorage: the same stack behind a sync.Mutex. For pools shared
//     across goroutines by pointer.
//
// Values leave the pool wrapped in a Guard. Releasing the guard clears the
// value and pushes it back. Go has no destructors, so the release point is
// explicit:
//
//	g := p.Acquire()
//	defer g.Release()
//	g.Value().Push(42)
//
// or scoped:
//
//	err := p.With(func(v *containers.Vec[int]) error {
//		v.Push(42)
//		return nil
//	})
//
// A value handed out is always empty: spares are cleared on release and
// pre-warmed values are freshly constructed.
//
// Poisoning
//
// If a panic unwinds out of a SharedStorage critical section (a panicking
// constructor during Prewarm, for example), the storage is marked poisoned.
// The mutex itself is always unlocked. Afterwards:
//
//   - Acquire and Release keep working and count a recovery.
//   - Size returns the count together with an error wrapping ErrPoisoned.
//   - Prewarm refuses and returns an error wrapping ErrPoisoned.
//
// Poison is sticky until ClearPoison is called.
//
// Capacity
//
// Pools are unbounded. Spares accumulate to the peak number of concurrently
// outstanding values and shrink only when consumed by Acquire. There is no
// eviction, trimming or cross-process sharing.
//
// Statistics
//
// Every pool keeps atomic counters (see Stats). Pools created with
// WithMetrics also export them to Prometheus, and a Registry aggregates
// named pools for reporting.
package pool
