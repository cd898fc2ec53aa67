package pool

// Guard is exclusive ownership of one pooled value. Release clears the
// value and returns it to the pool exactly once; later calls do nothing.
//
// A Guard is not safe for concurrent use. Hand the guard itself to another
// goroutine if ownership must move.
type Guard[T Clearable] struct {
	pool     *Pool[T]
	value    T
	released bool
}

// Value returns the held value. It panics if the guard was released.
func (g *Guard[T]) Value() T {
	if g.released {
		panic("pool: value used after release")
	}
	return g.value
}

// Release clears the value and gives it back to the pool. If the pool was
// closed the value is dropped instead. The guard is marked released before
// Clear runs, so a panicking Clear cannot cause a double return.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true

	v := g.value
	var zero T
	g.value = zero
	g.pool.release(v)
}

// Released reports whether Release was called.
func (g *Guard[T]) Released() bool {
	return g.released
}
