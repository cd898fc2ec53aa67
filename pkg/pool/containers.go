package pool

import (
	"cmp"

	"github.com/ajitpratap0/reclaim/pkg/containers"
)

// NewVecPool creates a single-goroutine pool of vectors.
func NewVecPool[E any](opts ...Option) *Pool[*containers.Vec[E]] {
	return NewLocalOf[containers.Vec[E]](opts...)
}

// NewSharedVecPool creates a concurrent pool of vectors.
func NewSharedVecPool[E any](opts ...Option) *Pool[*containers.Vec[E]] {
	return NewSharedOf[containers.Vec[E]](opts...)
}

// NewHashMapPool creates a single-goroutine pool of hash maps.
func NewHashMapPool[K comparable, V any](opts ...Option) *Pool[*containers.HashMap[K, V]] {
	return NewLocalOf[containers.HashMap[K, V]](opts...)
}

// NewSharedHashMapPool creates a concurrent pool of hash maps.
func NewSharedHashMapPool[K comparable, V any](opts ...Option) *Pool[*containers.HashMap[K, V]] {
	return NewSharedOf[containers.HashMap[K, V]](opts...)
}

// NewHashSetPool creates a single-goroutine pool of hash sets.
func NewHashSetPool[E comparable](opts ...Option) *Pool[*containers.HashSet[E]] {
	return NewLocalOf[containers.HashSet[E]](opts...)
}

// NewSharedHashSetPool creates a concurrent pool of hash sets.
func NewSharedHashSetPool[E comparable](opts ...Option) *Pool[*containers.HashSet[E]] {
	return NewSharedOf[containers.HashSet[E]](opts...)
}

// NewStringPool creates a single-goroutine pool of string builders.
func NewStringPool(opts ...Option) *Pool[*containers.String] {
	return NewLocalOf[containers.String](opts...)
}

// NewSharedStringPool creates a concurrent pool of string builders.
func NewSharedStringPool(opts ...Option) *Pool[*containers.String] {
	return NewSharedOf[containers.String](opts...)
}

// NewDequePool creates a single-goroutine pool of deques.
func NewDequePool[E any](opts ...Option) *Pool[*containers.Deque[E]] {
	return NewLocalOf[containers.Deque[E]](opts...)
}

// NewSharedDequePool creates a concurrent pool of deques.
func NewSharedDequePool[E any](opts ...Option) *Pool[*containers.Deque[E]] {
	return NewSharedOf[containers.Deque[E]](opts...)
}

// NewHeapPool creates a single-goroutine pool of max-heaps.
func NewHeapPool[E cmp.Ordered](opts ...Option) *Pool[*containers.Heap[E]] {
	return NewLocalOf[containers.Heap[E]](opts...)
}

// NewSharedHeapPool creates a concurrent pool of max-heaps.
func NewSharedHeapPool[E cmp.Ordered](opts ...Option) *Pool[*containers.Heap[E]] {
	return NewSharedOf[containers.Heap[E]](opts...)
}

// NewBufferPool creates a single-goroutine pool of byte buffers.
func NewBufferPool(opts ...Option) *Pool[*containers.Buffer] {
	return NewLocalOf[containers.Buffer](opts...)
}

// NewSharedBufferPool creates a concurrent pool of byte buffers.
func NewSharedBufferPool(opts ...Option) *Pool[*containers.Buffer] {
	return NewSharedOf[containers.Buffer](opts...)
}
