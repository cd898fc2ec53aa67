package workload

import (
	"context"
	"time"

	"github.com/ajitpratap0/reclaim/pkg/compression"
	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/containers"
	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// target is one configured pool with its element type erased.
type target interface {
	reporter() pool.Reporter
	prewarm(n int) error
	// cycle acquires a value, fills it, optionally compresses it, holds it
	// and releases it. scratch is reused for compressed output.
	cycle(ctx context.Context, iter int, scratch []byte, inject bool) ([]byte, error)
	close()
}

// cycleSpec is the per-cycle work shared by every target.
type cycleSpec struct {
	fill       int
	hold       time.Duration
	compressor *compression.CompressorPool
}

// kindTarget drives a Pool[T]. fill writes n elements into v and returns
// the bytes to compress, or nil when the kind has no byte form.
type kindTarget[T pool.Clearable] struct {
	pool *pool.Pool[T]
	fill func(v T, n, iter int) []byte
	spec cycleSpec
}

func newKindTarget[T pool.Clearable](
	pc config.PoolConfig,
	local, shared func(...pool.Option) *pool.Pool[T],
	fill func(v T, n, iter int) []byte,
	spec cycleSpec,
	opts []pool.Option,
) *kindTarget[T] {
	build := local
	if pc.Shared {
		build = shared
	}
	return &kindTarget[T]{pool: build(opts...), fill: fill, spec: spec}
}

func (k *kindTarget[T]) reporter() pool.Reporter { return k.pool }

func (k *kindTarget[T]) prewarm(n int) error { return k.pool.Prewarm(n) }

func (k *kindTarget[T]) close() { k.pool.Close() }

func (k *kindTarget[T]) cycle(ctx context.Context, iter int, scratch []byte, inject bool) ([]byte, error) {
	err := k.pool.With(func(v T) error {
		payload := k.fill(v, k.spec.fill, iter)
		if k.spec.compressor != nil && len(payload) > 0 {
			out, err := k.spec.compressor.AppendCompress(scratch[:0], payload)
			if err != nil {
				return err
			}
			scratch = out
		}
		if err := hold(ctx, k.spec.hold); err != nil {
			return err
		}
		if inject {
			panic(errInjected)
		}
		return nil
	})
	return scratch, err
}

func hold(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func newTarget(pc config.PoolConfig, spec cycleSpec, opts []pool.Option) (target, error) {
	switch pc.Kind {
	case config.KindVec:
		return newKindTarget(pc, pool.NewVecPool[int], pool.NewSharedVecPool[int], fillVec, spec, opts), nil
	case config.KindHashMap:
		return newKindTarget(pc, pool.NewHashMapPool[int, int], pool.NewSharedHashMapPool[int, int], fillHashMap, spec, opts), nil
	case config.KindHashSet:
		return newKindTarget(pc, pool.NewHashSetPool[int], pool.NewSharedHashSetPool[int], fillHashSet, spec, opts), nil
	case config.KindString:
		return newKindTarget(pc, pool.NewStringPool, pool.NewSharedStringPool, fillString, spec, opts), nil
	case config.KindDeque:
		return newKindTarget(pc, pool.NewDequePool[int], pool.NewSharedDequePool[int], fillDeque, spec, opts), nil
	case config.KindHeap:
		return newKindTarget(pc, pool.NewHeapPool[int], pool.NewSharedHeapPool[int], fillHeap, spec, opts), nil
	case config.KindBuffer:
		return newKindTarget(pc, pool.NewBufferPool, pool.NewSharedBufferPool, fillBuffer, spec, opts), nil
	default:
		return nil, poolerrors.New(poolerrors.ErrorTypeConfig, "unknown pool kind").
			WithDetail("pool", pc.Name).
			WithDetail("kind", pc.Kind)
	}
}

func fillVec(v *containers.Vec[int], n, iter int) []byte {
	for j := 0; j < n; j++ {
		v.Push(iter + j)
	}
	return nil
}

func fillHashMap(m *containers.HashMap[int, int], n, iter int) []byte {
	for j := 0; j < n; j++ {
		m.Insert(j, iter)
	}
	return nil
}

func fillHashSet(s *containers.HashSet[int], n, iter int) []byte {
	for j := 0; j < n; j++ {
		s.Insert(iter*n + j)
	}
	return nil
}

func fillString(s *containers.String, n, iter int) []byte {
	s.Grow(n)
	for j := 0; j < n; j++ {
		_ = s.WriteByte('a' + byte((iter+j)%26))
	}
	return s.Bytes()
}

// fillDeque uses the deque as a sliding window: push to both ends, then
// drain half from the front.
func fillDeque(d *containers.Deque[int], n, iter int) []byte {
	for j := 0; j < n; j++ {
		if j%2 == 0 {
			d.PushBack(iter + j)
		} else {
			d.PushFront(iter - j)
		}
	}
	for j := 0; j < n/2; j++ {
		d.PopFront()
	}
	return nil
}

func fillHeap(h *containers.Heap[int], n, iter int) []byte {
	for j := 0; j < n; j++ {
		h.Push((iter*31 + j*17) % (n + 1))
	}
	for j := 0; j < n/4; j++ {
		h.Pop()
	}
	return nil
}

func fillBuffer(b *containers.Buffer, n, iter int) []byte {
	for j := 0; j < n; j++ {
		_ = b.WriteByte(byte(iter + j%16))
	}
	return b.B
}
