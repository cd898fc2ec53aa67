// Package workload drives configured pools with concurrent
// acquire/fill/release churn and reports what the pools did.
//
// Each cycle acquires a value, writes Fill elements into it, optionally
// compresses its bytes, holds it for Hold and releases it. Every
// PanicEvery-th cycle panics while the value is held; the guard still
// returns the value and the worker carries on.
package workload

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ajitpratap0/reclaim/pkg/compression"
	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/logger"
	"github.com/ajitpratap0/reclaim/pkg/metrics"
	"github.com/ajitpratap0/reclaim/pkg/observability"
	"github.com/ajitpratap0/reclaim/pkg/performance"
	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// Name labels workload spans and metrics.
const Name = "churn"

// latencySamples bounds the per-pool latency window.
const latencySamples = 10000

// errInjected is the panic value of injected holder panics.
var errInjected = errors.New("workload: injected holder panic")

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for the runner and the pools it builds.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRegistry registers every pool in reg while its run is in progress.
func WithRegistry(reg *pool.Registry) Option {
	return func(r *Runner) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// Runner executes the workload of a Config against each of its pools in
// turn.
type Runner struct {
	pools    []config.PoolConfig
	workload config.WorkloadConfig
	metrics  bool

	logger     *zap.Logger
	registry   *pool.Registry
	compressor *compression.CompressorPool
	monitor    *performance.ResourceMonitor
}

// NewRunner validates cfg and prepares a runner.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, poolerrors.New(poolerrors.ErrorTypeValidation, "config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		pools:    cfg.Pools,
		workload: cfg.Workload,
		metrics:  cfg.Metrics.Enabled,
		logger:   logger.Get(),
		registry: pool.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}

	algo, err := compression.ParseAlgorithm(cfg.Workload.Compression)
	if err != nil {
		return nil, err
	}
	if algo != compression.None {
		r.compressor, err = compression.NewCompressorPool(
			&compression.Config{Algorithm: algo, Level: compression.Fastest},
			r.poolOptions("")...,
		)
		if err != nil {
			return nil, err
		}
	}

	monitor, err := performance.NewResourceMonitor()
	if err != nil {
		r.logger.Warn("resource monitoring unavailable", zap.Error(err))
	}
	r.monitor = monitor

	return r, nil
}

func (r *Runner) poolOptions(name string) []pool.Option {
	opts := []pool.Option{pool.WithLogger(r.logger)}
	if name != "" {
		opts = append(opts, pool.WithName(name))
	}
	if r.metrics {
		opts = append(opts, pool.WithMetrics())
	}
	return opts
}

// Run executes the workload against every configured pool, one pool at a
// time. It stops at the first pool that fails and returns the report
// gathered so far together with the error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Workload:  r.workload,
	}
	ctx = context.WithValue(ctx, logger.RunIDKey, report.RunID)
	log := logger.Enrich(ctx, r.logger)
	if r.monitor != nil {
		r.monitor.Reset()
	}

	log.Info("workload started",
		zap.Int("pools", len(r.pools)),
		zap.Int("workers", r.workload.Workers),
		zap.Int("iterations", r.workload.Iterations))

	timer := metrics.NewTimer(Name)
	var runErr error
	for _, pc := range r.pools {
		pr, err := r.runPool(ctx, pc)
		report.Pools = append(report.Pools, pr)
		if err != nil {
			runErr = err
			break
		}
	}
	report.Duration = timer.Stop()

	if r.compressor != nil {
		stats := r.compressor.Pool().Stats()
		report.Compression = &CompressionReport{
			Algorithm: string(r.compressor.Algorithm()),
			Pool:      r.compressor.Pool().Name(),
			Stats:     stats,
		}
	}
	if r.monitor != nil {
		report.Resources = r.monitor.GetResourceUsage()
	}

	if runErr != nil {
		log.Error("workload failed", zap.Error(runErr), zap.Duration("duration", report.Duration))
		return report, runErr
	}
	log.Info("workload completed", zap.Duration("duration", report.Duration))
	return report, nil
}

// runState is shared by the workers of one pool run.
type runState struct {
	target     target
	limiter    *rate.Limiter
	throughput *metrics.ThroughputTracker
	latency    *metrics.LatencyTracker
	cycles     atomic.Int64
	panics     atomic.Int64
}

func (r *Runner) runPool(ctx context.Context, pc config.PoolConfig) (PoolReport, error) {
	pr := PoolReport{Name: pc.Name, Kind: pc.Kind, Shared: pc.Shared}

	spec := cycleSpec{fill: r.workload.Fill, hold: r.workload.Hold, compressor: r.compressor}
	t, err := newTarget(pc, spec, r.poolOptions(pc.Name))
	if err != nil {
		return pr, err
	}
	defer t.close()

	if err := r.registry.Register(t.reporter()); err != nil {
		return pr, err
	}
	defer r.registry.Unregister(pc.Name)

	ctx = context.WithValue(ctx, logger.PoolKey, pc.Name)
	tracer := observability.NewPoolTracer(Name, pc.Name)
	ctx, span := tracer.StartSpan(ctx, "run")
	defer span.End()
	log := observability.LoggerWithSpan(ctx, logger.Enrich(ctx, r.logger).With(zap.String("kind", pc.Kind)))

	if err := t.prewarm(pc.Prewarm); err != nil {
		span.RecordError(err)
		return pr, err
	}
	if pc.Prewarm > 0 {
		span.AddEvent("prewarmed")
	}

	// Single-owner storage is not safe for concurrent use.
	workers := r.workload.Workers
	if !pc.Shared {
		workers = 1
	}
	pr.Workers = workers
	span.SetAttribute("pool.kind", pc.Kind)
	span.SetAttribute("pool.shared", pc.Shared)
	span.SetAttribute("workers", workers)
	span.SetAttribute("iterations", r.workload.Iterations)

	st := &runState{
		target:     t,
		throughput: metrics.NewThroughputTracker(Name),
		latency:    metrics.NewLatencyTracker(latencySamples),
	}
	if r.workload.RatePerSec > 0 {
		st.limiter = rate.NewLimiter(rate.Limit(r.workload.RatePerSec), workers)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	errs := make([]error, workers)
	var wg conc.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			if err := r.work(runCtx, w, st); err != nil {
				errs[w] = err
				cancel()
			}
		})
	}
	recovered := wg.WaitAndRecover()
	pr.Duration = time.Since(start)

	pr.Cycles = st.cycles.Load()
	pr.Panics = st.panics.Load()
	pr.Throughput = st.throughput.GetAndReset()
	pr.P50 = st.latency.GetPercentile(50)
	pr.P99 = st.latency.GetPercentile(99)
	pr.Stats = t.reporter().Stats()
	pr.Poisoned = t.reporter().Poisoned()
	pr.Spares, _ = t.reporter().Size()

	span.SetAttribute("cycles", pr.Cycles)
	span.SetAttribute("panics", pr.Panics)

	err = errors.Join(errs...)
	if recovered != nil {
		err = errors.Join(err, recovered.AsError())
	}
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("pool run timed out", zap.Int64("cycles", pr.Cycles))
			return pr, poolerrors.Wrap(err, poolerrors.ErrorTypeTimeout, "pool run timed out").
				WithDetail("pool", pc.Name)
		}
		log.Error("pool run failed", zap.Error(err))
		return pr, poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "pool run failed").
			WithDetail("pool", pc.Name)
	}

	log.Info("pool run completed",
		zap.Int64("cycles", pr.Cycles),
		zap.Int64("injected_panics", pr.Panics),
		zap.Float64("cycles_per_sec", pr.Throughput),
		zap.Float64("hit_rate", pr.Stats.HitRate()),
		zap.Int("spares", pr.Spares))
	return pr, nil
}

// work runs the iterations of one worker. Injected panics are recovered
// per cycle; any other panic ends the worker with an error.
func (r *Runner) work(ctx context.Context, id int, st *runState) error {
	ctx = context.WithValue(ctx, logger.WorkerKey, id)
	log := logger.Enrich(ctx, r.logger)

	var scratch []byte
	for i := 1; i <= r.workload.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.limiter != nil {
			if err := st.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		inject := r.workload.PanicEvery > 0 && i%r.workload.PanicEvery == 0
		start := time.Now()

		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			scratch, err = st.target.cycle(ctx, i, scratch, inject)
		})
		if rec := catcher.Recovered(); rec != nil {
			if v, ok := rec.Value.(error); !ok || !errors.Is(v, errInjected) {
				return rec.AsError()
			}
			st.panics.Add(1)
			log.Debug("injected panic recovered", zap.Int("iteration", i))
		} else if err != nil {
			return err
		}

		elapsed := time.Since(start)
		st.latency.Record(elapsed)
		st.throughput.Increment(1)
		st.cycles.Add(1)
		if r.metrics {
			metrics.CycleDuration.WithLabelValues(Name).Observe(elapsed.Seconds())
		}
	}
	return nil
}
