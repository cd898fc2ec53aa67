// Package containers provides the mutable collections that reclaim pools
// hand out: a dynamic array, a hash map, a hash set, a byte-backed string
// builder, a double-ended queue, a priority queue and a byte buffer.
//
// Every type has a usable zero value and a Clear method that empties the
// collection while keeping its backing storage, so a value that goes back
// into a pool keeps the capacity it grew to:
//
//	var v containers.Vec[int]
//	v.Extend(1, 2, 3)
//	v.Clear()
//	// v.Len() == 0, v.Cap() >= 3
//
// None of the types are safe for concurrent use. A pooled value has one
// owner at a time; the pool is what is shared.
package containers
