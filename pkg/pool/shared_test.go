package pool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/reclaim/pkg/containers"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

func TestPrewarmedValuesAreHandedOutConcurrently(t *testing.T) {
	var (
		mu      sync.Mutex
		created = make(map[*containers.Vec[int]]bool)
	)
	p := NewShared(func() *containers.Vec[int] {
		v := containers.NewVec[int](8)
		mu.Lock()
		created[v] = true
		mu.Unlock()
		return v
	})

	require.NoError(t, p.Prewarm(10))
	size, err := p.Size()
	require.NoError(t, err)
	require.Equal(t, 10, size)

	guards := make([]*Guard[*containers.Vec[int]], 10)
	var wg sync.WaitGroup
	for i := range guards {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			guards[i] = p.Acquire()
		}(i)
	}
	wg.Wait()

	size, err = p.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	distinct := make(map[*containers.Vec[int]]bool)
	for _, g := range guards {
		assert.True(t, created[g.Value()], "value was not prewarmed")
		distinct[g.Value()] = true
	}
	assert.Len(t, distinct, 10)
	assert.Equal(t, int64(0), p.Stats().Created)

	for _, g := range guards {
		g.Release()
	}
	size, _ = p.Size()
	assert.Equal(t, 10, size)
}

func TestConcurrentHoldersAllReturn(t *testing.T) {
	const holders = 8
	p := NewSharedVecPool[int]()

	var (
		holding sync.WaitGroup
		done    sync.WaitGroup
		release = make(chan struct{})
	)
	holding.Add(holders)
	done.Add(holders)

	for i := 0; i < holders; i++ {
		go func(i int) {
			defer done.Done()
			defer func() { _ = recover() }()

			_ = p.With(func(v *containers.Vec[int]) error {
				v.Push(i)
				holding.Done()
				<-release
				if i == 0 {
					panic("holder interrupted")
				}
				return nil
			})
		}(i)
	}

	holding.Wait()
	assert.Equal(t, int64(holders), p.Stats().InUse)
	close(release)
	done.Wait()

	size, err := p.Size()
	require.NoError(t, err)
	assert.Equal(t, holders, size)

	s := p.Stats()
	assert.Equal(t, int64(holders), s.Created)
	assert.Equal(t, int64(holders), s.Returned)
	assert.Equal(t, int64(0), s.InUse)
	assert.False(t, p.Poisoned())
}

func TestPoisonedStorageKeepsServing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	var calls atomic.Int32
	p := NewShared(func() *containers.Vec[int] {
		if calls.Add(1) == 3 {
			panic("constructor failed")
		}
		return &containers.Vec[int]{}
	}, WithName("poisoned"), WithLogger(zap.New(core)))

	assert.Panics(t, func() { _ = p.Prewarm(5) })
	require.True(t, p.Poisoned())

	size, err := p.Size()
	require.Error(t, err)
	assert.Equal(t, 2, size)
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.True(t, poolerrors.IsRetryable(err))

	err = p.Prewarm(1)
	assert.ErrorIs(t, err, ErrPoisoned)

	// acquire and release still work
	for i := 0; i < 3; i++ {
		g := p.Acquire()
		g.Value().Push(i)
		g.Release()
	}
	s := p.Stats()
	assert.Equal(t, int64(6), s.Recoveries)
	assert.Equal(t, int64(3), s.Returned)
	assert.Equal(t, 1, logs.Len(), "warn once per poisoning episode")

	size, err = p.Size()
	assert.Error(t, err)
	assert.Equal(t, 2, size)

	p.ClearPoison()
	assert.False(t, p.Poisoned())
	size, err = p.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	require.NoError(t, p.Prewarm(3))
	size, _ = p.Size()
	assert.Equal(t, 5, size)

	g := p.Acquire()
	g.Release()
	assert.Equal(t, int64(6), p.Stats().Recoveries)
	assert.Equal(t, 1, logs.Len())
}

func TestPoisonWarnsAgainAfterClear(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	var explode atomic.Bool
	p := NewShared(func() *containers.String {
		if explode.Load() {
			panic("constructor failed")
		}
		return &containers.String{}
	}, WithLogger(zap.New(core)))

	for episode := 1; episode <= 2; episode++ {
		explode.Store(true)
		assert.Panics(t, func() { _ = p.Prewarm(1) })
		explode.Store(false)

		p.Acquire().Release()
		p.Acquire().Release()
		assert.Equal(t, episode, logs.Len())
		p.ClearPoison()
	}
}

func TestSharedPoolStress(t *testing.T) {
	const (
		workers    = 16
		iterations = 500
	)
	p := NewSharedVecPool[int]()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				g := p.Acquire()
				v := g.Value()
				if v.Len() != 0 {
					t.Errorf("acquired a non-empty value: len %d", v.Len())
				}
				for k := 0; k < 10; k++ {
					v.Push(w*iterations + i)
				}
				g.Release()
			}
		}(w)
	}
	wg.Wait()

	s := p.Stats()
	assert.Equal(t, int64(workers*iterations), s.Acquired)
	assert.Equal(t, s.Acquired, s.Returned)
	assert.Equal(t, int64(0), s.InUse)
	assert.LessOrEqual(t, s.Created, int64(workers))

	size, err := p.Size()
	require.NoError(t, err)
	assert.Equal(t, int(s.Created), size)
}

func TestSharedPoolPrewarmFromManyGoroutines(t *testing.T) {
	p := NewSharedDequePool[string]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Prewarm(5))
		}()
	}
	wg.Wait()

	size, err := p.Size()
	require.NoError(t, err)
	assert.Equal(t, 40, size)
}
