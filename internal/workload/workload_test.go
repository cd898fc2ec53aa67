package workload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
	"github.com/ajitpratap0/reclaim/pkg/testutil"
)

type WorkloadSuite struct {
	testutil.IntegrationTestSuite
}

func TestWorkloadSuite(t *testing.T) {
	suite.Run(t, new(WorkloadSuite))
}

func smallConfig(workers, iterations int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Workload.Workers = workers
	cfg.Workload.Iterations = iterations
	cfg.Workload.Fill = 16
	for i := range cfg.Pools {
		cfg.Pools[i].Prewarm = 2
	}
	return cfg
}

func (s *WorkloadSuite) run(cfg *config.Config, opts ...Option) *Report {
	opts = append([]Option{WithLogger(testutil.TestLogger(s.T())), WithRegistry(s.Registry())}, opts...)
	r, err := NewRunner(cfg, opts...)
	s.Require().NoError(err)

	report, err := r.Run(s.Context())
	s.Require().NoError(err)
	return report
}

func (s *WorkloadSuite) TestEveryKindBalances() {
	report := s.run(smallConfig(4, 200))

	s.Require().Len(report.Pools, len(config.Kinds))
	s.NotEmpty(report.RunID)
	s.Nil(report.Compression)
	s.Require().NotNil(report.Resources)
	s.Positive(report.Resources.GoroutineCount)

	for _, pr := range report.Pools {
		s.Equal(4, pr.Workers, pr.Name)
		s.Equal(int64(800), pr.Cycles, pr.Name)
		s.Equal(pr.Cycles, pr.Stats.Acquired, pr.Name)
		s.Equal(pr.Cycles, pr.Stats.Returned, pr.Name)
		s.Zero(pr.Stats.InUse, pr.Name)
		s.Zero(pr.Stats.Discarded, pr.Name)
		s.Equal(int64(2), pr.Stats.Prewarmed, pr.Name)
		// every value ever built is back in storage
		s.Equal(int(pr.Stats.Created+pr.Stats.Prewarmed), pr.Spares, pr.Name)
		s.LessOrEqual(pr.Stats.Created, int64(4), pr.Name)
		s.False(pr.Poisoned, pr.Name)
		s.Positive(pr.Throughput, pr.Name)
		s.LessOrEqual(pr.P50, pr.P99, pr.Name)
	}
	s.Equal(int64(800*len(config.Kinds)), report.TotalCycles())
}

func (s *WorkloadSuite) TestRunsFromSavedConfig() {
	cfg := smallConfig(2, 30)
	cfg.Workload.Compression = "snappy"
	cfg.Pools = []config.PoolConfig{{Name: "text", Kind: config.KindString, Shared: true, Prewarm: 2}}

	loaded, err := config.LoadFile(s.WriteConfig("churn.toml", cfg))
	s.Require().NoError(err)

	report := s.run(loaded)
	s.Equal(int64(60), report.TotalCycles())
	s.Require().NotNil(report.Compression)
	s.Equal("snappy", report.Compression.Algorithm)
}

func (s *WorkloadSuite) TestInjectedPanicsReturnValues() {
	cfg := smallConfig(2, 100)
	cfg.Workload.PanicEvery = 10
	cfg.Pools = []config.PoolConfig{{Name: "vec", Kind: config.KindVec, Shared: true}}

	report := s.run(cfg)
	pr := report.Pools[0]
	s.Equal(int64(20), pr.Panics)
	s.Equal(int64(200), pr.Cycles)
	s.Equal(int64(200), pr.Stats.Returned)
	s.False(pr.Poisoned)
	s.Equal(int(pr.Stats.Created), pr.Spares)
}

func (s *WorkloadSuite) TestCompressionUsesSharedCodecs() {
	cfg := smallConfig(2, 50)
	cfg.Workload.Compression = "zstd"
	cfg.Pools = []config.PoolConfig{
		{Name: "text", Kind: config.KindString, Shared: true},
		{Name: "bytes", Kind: config.KindBuffer, Shared: true},
		{Name: "ints", Kind: config.KindVec, Shared: true},
	}

	report := s.run(cfg)
	s.Require().NotNil(report.Compression)
	s.Equal("zstd", report.Compression.Algorithm)
	s.Equal("compress_zstd", report.Compression.Pool)
	// vec values have no byte form and skip compression
	s.Equal(int64(200), report.Compression.Stats.Acquired)
	s.LessOrEqual(report.Compression.Stats.Created, int64(2))
}

func (s *WorkloadSuite) TestLocalPoolsRunSingleWorker() {
	cfg := smallConfig(8, 50)
	cfg.Pools = []config.PoolConfig{{Name: "local", Kind: config.KindDeque, Shared: false, Prewarm: 1}}

	report := s.run(cfg)
	pr := report.Pools[0]
	s.Equal(1, pr.Workers)
	s.Equal(int64(50), pr.Cycles)
	s.Equal(int64(50), pr.Stats.Reused)
	s.Zero(pr.Stats.Created)
	s.Equal(1, pr.Spares)
}

func (s *WorkloadSuite) TestRateLimitPacesCycles() {
	cfg := smallConfig(1, 20)
	cfg.Workload.RatePerSec = 200
	cfg.Pools = []config.PoolConfig{{Name: "paced", Kind: config.KindHeap, Shared: true}}

	report := s.run(cfg)
	s.Equal(int64(20), report.Pools[0].Cycles)
	s.GreaterOrEqual(report.Pools[0].Duration, 80*time.Millisecond)
}

func (s *WorkloadSuite) TestHoldKeepsValuesOut() {
	cfg := smallConfig(4, 5)
	cfg.Workload.Hold = 5 * time.Millisecond
	cfg.Pools = []config.PoolConfig{{Name: "held", Kind: config.KindHashMap, Shared: true}}

	report := s.run(cfg)
	pr := report.Pools[0]
	s.GreaterOrEqual(pr.P50, 5*time.Millisecond)
	s.Equal(int64(20), pr.Cycles)
}

func (s *WorkloadSuite) TestRegistryTracksRunningPools() {
	reg := pool.NewRegistry()
	cfg := smallConfig(1, 10)
	cfg.Pools = []config.PoolConfig{{Name: "a", Kind: config.KindHashSet, Shared: true}}

	s.run(cfg, WithRegistry(reg))
	s.Empty(reg.Names(), "pools are unregistered once their run ends")

	blocker := pool.NewSharedHashSetPool[int](pool.WithName("a"))
	s.Require().NoError(reg.Register(blocker))

	r, err := NewRunner(cfg, WithRegistry(reg), WithLogger(testutil.TestLogger(s.T())))
	s.Require().NoError(err)
	report, err := r.Run(s.Context())
	s.Require().Error(err)
	s.True(poolerrors.IsType(err, poolerrors.ErrorTypeValidation))
	s.Len(report.Pools, 1)
}

func (s *WorkloadSuite) TestCanceledContextStopsRun() {
	cfg := smallConfig(2, 1000)
	cfg.Workload.Hold = time.Millisecond

	r, err := NewRunner(cfg, WithLogger(testutil.TestLogger(s.T())))
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.Context())
	cancel()

	report, err := r.Run(ctx)
	s.Require().Error(err)
	s.True(errors.Is(err, context.Canceled))
	s.Len(report.Pools, 1, "the run stops at the first failing pool")
	s.Zero(report.Pools[0].Stats.InUse)
}

func (s *WorkloadSuite) TestExpiredDeadlineIsTimeout() {
	cfg := smallConfig(2, 1000)

	r, err := NewRunner(cfg, WithLogger(testutil.TestLogger(s.T())))
	s.Require().NoError(err)

	ctx, cancel := context.WithDeadline(s.Context(), time.Now().Add(-time.Second))
	defer cancel()

	report, err := r.Run(ctx)
	s.Require().Error(err)
	s.True(errors.Is(err, context.DeadlineExceeded))
	s.True(poolerrors.IsType(err, poolerrors.ErrorTypeTimeout))
	s.True(poolerrors.IsRetryable(err))
	s.Len(report.Pools, 1)
}

func TestNewRunnerRejectsBadConfig(t *testing.T) {
	_, err := NewRunner(nil)
	require.Error(t, err)

	cfg := config.DefaultConfig()
	cfg.Pools[0].Kind = "tree"
	_, err = NewRunner(cfg)
	require.Error(t, err)
	assert.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeConfig))
}

func TestRunEmitsPoolSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	cfg := smallConfig(2, 10)
	cfg.Pools = cfg.Pools[:2]
	r, err := NewRunner(cfg, WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	for i, span := range spans {
		assert.Equal(t, Name+".run", span.Name())
		attrs := map[string]string{}
		for _, kv := range span.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, cfg.Pools[i].Name, attrs["pool.name"])
		assert.Equal(t, "20", attrs["cycles"])
	}
}
