package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/reclaim/pkg/containers"
)

func TestGuardReleaseIsIdempotent(t *testing.T) {
	p := NewVecPool[int]()

	g := p.Acquire()
	assert.False(t, g.Released())
	g.Release()
	g.Release()
	g.Release()

	assert.True(t, g.Released())
	size, _ := p.Size()
	assert.Equal(t, 1, size)
	assert.Equal(t, int64(1), p.Stats().Returned)
	assert.Equal(t, int64(0), p.Stats().InUse)
}

func TestGuardValueAfterReleasePanics(t *testing.T) {
	p := NewVecPool[int]()

	g := p.Acquire()
	g.Release()
	assert.PanicsWithValue(t, "pool: value used after release", func() { g.Value() })
}

func TestGuardDeferRelease(t *testing.T) {
	p := NewHashMapPool[string, string]()

	func() {
		g := p.Acquire()
		defer g.Release()
		g.Value().Insert("k", "v")
	}()

	g := p.Acquire()
	defer g.Release()
	assert.Equal(t, 0, g.Value().Len())
	assert.IsType(t, &containers.HashMap[string, string]{}, g.Value())
}
