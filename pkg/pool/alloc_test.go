package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/testutil"
)

// A warm cycle reuses the spare and its backing array. Only the guard is new.
func TestWarmCycleAllocatesOnlyTheGuard(t *testing.T) {
	p := pool.NewSharedVecPool[int]()
	require.NoError(t, p.Prewarm(1))

	cycle := func() {
		g := p.Acquire()
		g.Value().Extend(1, 2, 3, 4)
		g.Release()
	}
	// grows the spare's capacity once
	cycle()

	allocs := testing.AllocsPerRun(200, cycle)
	assert.LessOrEqual(t, allocs, 1.0)

	const n = 1000
	mallocs := testutil.MallocsDuring(func() {
		for range n {
			cycle()
		}
	})
	assert.Less(t, mallocs, uint64(2*n))

	size, err := p.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
	assert.Equal(t, int64(1), p.Stats().Created)
}
