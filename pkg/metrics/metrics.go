// Package metrics provides Prometheus instrumentation for reclaim pools and
// the churn workloads that exercise them.
//
// # Overview
//
// The metrics package provides:
//   - Pre-defined collectors for pool hits, misses, releases and recoveries
//   - PoolCollector, which pre-binds the pool label for hot paths
//   - Throughput and latency tracking utilities for workloads
//
// # Basic Usage
//
//	c := metrics.NewPoolCollector("scratch")
//	c.AcquireReused()
//	c.Returned()
//	c.SetSpares(12)
//
//	timer := metrics.NewTimer("cycle")
//	runCycle()
//	metrics.CycleDuration.WithLabelValues("churn").Observe(timer.Stop().Seconds())
//
// All collectors are registered with the default Prometheus registry via
// promauto, so exposing promhttp.Handler() is enough to scrape them.
package metrics

import (
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reclaim"

// Label values used by the pool collectors.
const (
	SourceReused      = "reused"
	SourceCreated     = "created"
	OutcomeReturned   = "returned"
	OutcomeDiscarded  = "discarded"
	defaultWorkload   = "default"
	workloadLabelName = "workload"
)

var (
	// PoolAcquireTotal counts acquisitions.
	// Labels: pool, source (reused/created)
	//
	// Example:
	//	metrics.PoolAcquireTotal.WithLabelValues("scratch", metrics.SourceReused).Inc()
	PoolAcquireTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_acquire_total",
			Help:      "Total number of values handed out by a pool",
		},
		[]string{"pool", "source"},
	)

	// PoolReleaseTotal counts guard releases.
	// Labels: pool, outcome (returned/discarded)
	PoolReleaseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_release_total",
			Help:      "Total number of values released by guards",
		},
		[]string{"pool", "outcome"},
	)

	// PoolPoisonRecoveries counts operations that proceeded on poisoned
	// shared storage.
	// Labels: pool, op (take/give)
	PoolPoisonRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_poison_recoveries_total",
			Help:      "Operations that recovered data from poisoned storage",
		},
		[]string{"pool", "op"},
	)

	// PoolPrewarmed counts values inserted by Prewarm.
	PoolPrewarmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_prewarmed_total",
			Help:      "Values constructed ahead of demand",
		},
		[]string{"pool"},
	)

	// PoolSpares tracks the number of idle values held by a pool.
	PoolSpares = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_spares",
			Help:      "Idle values currently stored",
		},
		[]string{"pool"},
	)

	// PoolInUse tracks the number of outstanding guards.
	PoolInUse = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_in_use",
			Help:      "Values currently held by guards",
		},
		[]string{"pool"},
	)

	// CycleDuration tracks the duration of a single acquire/use/release
	// cycle in a workload, in seconds.
	CycleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workload_cycle_duration_seconds",
			Help:      "Duration of one acquire/use/release cycle",
			Buckets: []float64{
				1e-7, // 100ns - warm hit, no work
				1e-6, // 1μs
				1e-5, // 10μs
				1e-4, // 100μs - compression of small payloads
				1e-3, // 1ms
				1e-2, // 10ms - held values
				1e-1, // 100ms
			},
		},
		[]string{workloadLabelName},
	)

	// Throughput tracks cycles per second.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workload_throughput_cycles_per_second",
			Help:      "Current throughput in cycles per second",
		},
		[]string{workloadLabelName},
	)
)

// PoolCollector records the metrics of one named pool. The label values
// are bound once so the hot path does not hash label strings.
type PoolCollector struct {
	name           string
	acquireReused  prometheus.Counter
	acquireCreated prometheus.Counter
	returned       prometheus.Counter
	discarded      prometheus.Counter
	prewarmed      prometheus.Counter
	spares         prometheus.Gauge
	inUse          prometheus.Gauge
}

// NewPoolCollector creates a collector for the pool called name.
func NewPoolCollector(name string) *PoolCollector {
	return &PoolCollector{
		name:           name,
		acquireReused:  PoolAcquireTotal.WithLabelValues(name, SourceReused),
		acquireCreated: PoolAcquireTotal.WithLabelValues(name, SourceCreated),
		returned:       PoolReleaseTotal.WithLabelValues(name, OutcomeReturned),
		discarded:      PoolReleaseTotal.WithLabelValues(name, OutcomeDiscarded),
		prewarmed:      PoolPrewarmed.WithLabelValues(name),
		spares:         PoolSpares.WithLabelValues(name),
		inUse:          PoolInUse.WithLabelValues(name),
	}
}

// Name returns the pool label.
func (c *PoolCollector) Name() string { return c.name }

// AcquireReused records a hit. The spare it took leaves the gauge.
func (c *PoolCollector) AcquireReused() {
	c.acquireReused.Inc()
	c.inUse.Inc()
	c.spares.Dec()
}

// AcquireCreated records a miss.
func (c *PoolCollector) AcquireCreated() {
	c.acquireCreated.Inc()
	c.inUse.Inc()
}

// Returned records a value given back to storage as a spare.
func (c *PoolCollector) Returned() {
	c.returned.Inc()
	c.inUse.Dec()
	c.spares.Inc()
}

// Discarded records a value dropped on release.
func (c *PoolCollector) Discarded() {
	c.discarded.Inc()
	c.inUse.Dec()
}

// Recovered records an operation that proceeded on poisoned storage.
func (c *PoolCollector) Recovered(op string) {
	PoolPoisonRecoveries.WithLabelValues(c.name, op).Inc()
}

// Prewarmed records n values constructed ahead of demand.
func (c *PoolCollector) Prewarmed(n int) {
	c.prewarmed.Add(float64(n))
}

// SetSpares sets the idle value gauge.
func (c *PoolCollector) SetSpares(n int) {
	c.spares.Set(float64(n))
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
//
// Example:
//
//	timer := metrics.NewTimer("bench")
//	runner.Run(ctx)
//	logger.Info("bench finished", zap.Duration("duration", timer.Stop()))
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. The timer can be
// stopped multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks cycles per second over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64     // Cycles since last reset
	lastReset time.Time // Time of last reset
	workload  string
}

// NewThroughputTracker creates a tracker labelled with the workload name.
// An empty name maps to "default".
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("churn")
//	for i := 0; i < n; i++ {
//	    cycle()
//	    tracker.Increment(1)
//	}
//	perSec := tracker.GetAndReset()
func NewThroughputTracker(workload string) *ThroughputTracker {
	if workload == "" {
		workload = defaultWorkload
	}
	return &ThroughputTracker{
		lastReset: time.Now(),
		workload:  workload,
	}
}

// Increment adds n to the cycle count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (cycles/second),
// updates the Prometheus gauge, resets the counter, and returns
// the calculated throughput. Safe for concurrent use.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()

	Throughput.WithLabelValues(t.workload).Set(throughput)

	return throughput
}

// LatencyTracker keeps the most recent maxSize samples and reports
// percentiles over them.
type LatencyTracker struct {
	mu      sync.Mutex
	values  []time.Duration
	maxSize int
}

// NewLatencyTracker creates a new latency tracker
func NewLatencyTracker(maxSize int) *LatencyTracker {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LatencyTracker{
		values:  make([]time.Duration, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record records a latency value
func (l *LatencyTracker) Record(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) >= l.maxSize {
		// drop oldest
		copy(l.values, l.values[1:])
		l.values = l.values[:len(l.values)-1]
	}
	l.values = append(l.values, d)
}

// GetPercentile returns the percentile value (0-100)
func (l *LatencyTracker) GetPercentile(p float64) time.Duration {
	l.mu.Lock()
	sorted := slices.Clone(l.values)
	l.mu.Unlock()

	if len(sorted) == 0 {
		return 0
	}
	slices.Sort(sorted)

	index := int(float64(len(sorted)) * p / 100)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}

	return sorted[index]
}
