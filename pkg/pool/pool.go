package pool

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/reclaim/pkg/metrics"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// Pool hands out values of type T from a Storage and takes them back
// cleared. Whether a Pool is safe for concurrent use depends on its
// storage: pools built with NewShared are, pools built with NewLocal are
// not.
//
// A Pool is shared by pointer. It must not be copied after first use.
type Pool[T Clearable] struct {
	storage Storage[T]
	newFn   func() T
	name    string
	logger  *zap.Logger
	metrics *metrics.PoolCollector

	// warned is set after the first recovery of a poisoning episode.
	warned atomic.Bool

	stats struct {
		acquired   atomic.Int64
		reused     atomic.Int64
		created    atomic.Int64
		returned   atomic.Int64
		discarded  atomic.Int64
		inUse      atomic.Int64
		prewarmed  atomic.Int64
		recoveries atomic.Int64
	}
}

// Stats is a point-in-time copy of a pool's counters.
type Stats struct {
	Acquired   int64 `json:"acquired"`   // Values handed out
	Reused     int64 `json:"reused"`     // Acquisitions served from spares
	Created    int64 `json:"created"`    // Acquisitions that constructed a value
	Returned   int64 `json:"returned"`   // Releases kept by the storage
	Discarded  int64 `json:"discarded"`  // Releases dropped (closed storage, Clear panic)
	InUse      int64 `json:"in_use"`     // Outstanding guards
	Prewarmed  int64 `json:"prewarmed"`  // Values built by Prewarm
	Recoveries int64 `json:"recoveries"` // Operations that proceeded on poisoned storage
}

// HitRate returns the fraction of acquisitions served from spares.
func (s Stats) HitRate() float64 {
	if s.Acquired == 0 {
		return 0
	}
	return float64(s.Reused) / float64(s.Acquired)
}

// New creates a pool over storage. newFn builds a fresh value whenever the
// storage has no spare, and for Prewarm. It panics if storage or newFn is
// nil.
//
// Example:
//
//	p := pool.New(pool.NewSharedStorage[*containers.Vec[byte]](),
//	    func() *containers.Vec[byte] { return containers.NewVec[byte](4096) },
//	    pool.WithName("frames"),
//	)
func New[T Clearable](storage Storage[T], newFn func() T, opts ...Option) *Pool[T] {
	if storage == nil {
		panic("pool: nil storage")
	}
	if newFn == nil {
		panic("pool: nil constructor")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool[T]{
		storage: storage,
		newFn:   newFn,
		name:    o.name,
		logger:  o.logger.With(zap.String("pool", o.name)),
	}
	if o.metrics {
		p.metrics = metrics.NewPoolCollector(o.name)
	}
	if pa, ok := storage.(PoisonAware); ok {
		pa.SetRecoveryHook(p.recovered)
	}
	return p
}

// NewLocal creates a pool for use by a single goroutine.
func NewLocal[T Clearable](newFn func() T, opts ...Option) *Pool[T] {
	return New[T](NewLocalStorage[T](), newFn, opts...)
}

// NewShared creates a pool that is safe for concurrent use.
func NewShared[T Clearable](newFn func() T, opts ...Option) *Pool[T] {
	return New[T](NewSharedStorage[T](), newFn, opts...)
}

// NewLocalOf creates a single-goroutine pool of *T whose values are built
// with new(T). T's zero value must be ready to use.
//
// Example:
//
//	p := pool.NewLocalOf[containers.Vec[int]]()
func NewLocalOf[T any, PT interface {
	*T
	Clearable
}](opts ...Option) *Pool[PT] {
	return NewLocal(func() PT { return PT(new(T)) }, opts...)
}

// NewSharedOf is the concurrent counterpart of NewLocalOf.
func NewSharedOf[T any, PT interface {
	*T
	Clearable
}](opts ...Option) *Pool[PT] {
	return NewShared(func() PT { return PT(new(T)) }, opts...)
}

// Name returns the pool name.
func (p *Pool[T]) Name() string {
	return p.name
}

// Acquire returns a guard over a spare value, or over a freshly built one
// when there are no spares. It never fails, even on poisoned storage.
func (p *Pool[T]) Acquire() *Guard[T] {
	v, ok := p.storage.Take()
	if ok {
		p.stats.reused.Add(1)
		if p.metrics != nil {
			p.metrics.AcquireReused()
		}
	} else {
		v = p.newFn()
		p.stats.created.Add(1)
		if p.metrics != nil {
			p.metrics.AcquireCreated()
		}
	}
	p.stats.acquired.Add(1)
	p.stats.inUse.Add(1)

	return &Guard[T]{pool: p, value: v}
}

// With acquires a value, passes it to fn and releases it when fn returns
// or panics.
//
// Example:
//
//	err := p.With(func(s *containers.String) error {
//	    s.WriteString("hello")
//	    return send(s.Bytes())
//	})
func (p *Pool[T]) With(fn func(T) error) error {
	g := p.Acquire()
	defer g.Release()
	return fn(g.Value())
}

// Prewarm constructs n values and stores them as spares. n <= 0 does
// nothing. Local storage never fails; shared storage returns an error
// wrapping ErrStorageUnavailable when poisoned or closed.
func (p *Pool[T]) Prewarm(n int) error {
	if n <= 0 {
		return nil
	}
	if err := p.storage.Fill(n, p.newFn); err != nil {
		return poolerrors.Wrap(err, errorType(err), "prewarm failed").
			WithDetail("pool", p.name).
			WithDetail("count", n)
	}

	p.stats.prewarmed.Add(int64(n))
	if p.metrics != nil {
		p.metrics.Prewarmed(n)
		p.refreshSpares()
	}
	return nil
}

// Size returns the number of spares. On poisoned shared storage the count
// is returned together with an error wrapping ErrPoisoned.
func (p *Pool[T]) Size() (int, error) {
	n, err := p.storage.Len()
	if err != nil {
		return n, poolerrors.Wrap(err, errorType(err), "size unavailable").
			WithDetail("pool", p.name)
	}
	return n, nil
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Acquired:   p.stats.acquired.Load(),
		Reused:     p.stats.reused.Load(),
		Created:    p.stats.created.Load(),
		Returned:   p.stats.returned.Load(),
		Discarded:  p.stats.discarded.Load(),
		InUse:      p.stats.inUse.Load(),
		Prewarmed:  p.stats.prewarmed.Load(),
		Recoveries: p.stats.recoveries.Load(),
	}
}

// Poisoned reports whether the storage is poisoned. Storage that does not
// track poisoning never is.
func (p *Pool[T]) Poisoned() bool {
	if pa, ok := p.storage.(PoisonAware); ok {
		return pa.Poisoned()
	}
	return false
}

// ClearPoison resets the storage's poisoned flag, if it has one.
func (p *Pool[T]) ClearPoison() {
	if pa, ok := p.storage.(PoisonAware); ok {
		pa.ClearPoison()
		p.warned.Store(false)
	}
}

// Close drops all spares. Guards released afterwards discard their
// values. Acquire keeps working and builds fresh values.
func (p *Pool[T]) Close() {
	p.storage.Close()
	if p.metrics != nil {
		p.metrics.SetSpares(0)
	}
	p.logger.Debug("pool closed")
}

// release clears v and gives it back to the storage. If Clear panics, v
// is discarded and the panic continues.
func (p *Pool[T]) release(v T) {
	p.stats.inUse.Add(-1)

	kept := false
	defer func() {
		if kept {
			p.stats.returned.Add(1)
			if p.metrics != nil {
				p.metrics.Returned()
			}
			return
		}
		p.stats.discarded.Add(1)
		if p.metrics != nil {
			p.metrics.Discarded()
		}
		p.logger.Debug("value discarded on release")
	}()

	v.Clear()
	kept = p.storage.Give(v)
}

func (p *Pool[T]) recovered(op string) {
	p.stats.recoveries.Add(1)
	if p.metrics != nil {
		p.metrics.Recovered(op)
	}
	if p.warned.CompareAndSwap(false, true) {
		p.logger.Warn("recovering spares from poisoned storage",
			zap.String("op", op))
	}
}

func (p *Pool[T]) refreshSpares() {
	// The count is still meaningful when the storage is poisoned.
	n, _ := p.storage.Len()
	p.metrics.SetSpares(n)
}
