package pool

// Clearable is implemented by values that can be reset to an empty logical
// state in place. Clear may keep allocated capacity, and callers must not
// rely on it being released.
type Clearable interface {
	Clear()
}

// ClearFunc adapts a value that has no Clear method of its own, such as a
// third-party buffer or encoder, by pairing it with a reset function.
//
// Example:
//
//	p := pool.NewShared(func() *pool.ClearFunc[*bytes.Buffer] {
//		return pool.NewClearFunc(new(bytes.Buffer), (*bytes.Buffer).Reset)
//	})
type ClearFunc[V any] struct {
	Value V
	reset func(V)
}

// NewClearFunc wraps v with reset. A nil reset makes Clear a no-op.
func NewClearFunc[V any](v V, reset func(V)) *ClearFunc[V] {
	return &ClearFunc[V]{Value: v, reset: reset}
}

// Clear calls the reset function on the wrapped value.
func (c *ClearFunc[V]) Clear() {
	if c.reset != nil {
		c.reset(c.Value)
	}
}
