package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPoolCollector(t *testing.T) {
	c := NewPoolCollector("metrics_test_pool")
	assert.Equal(t, "metrics_test_pool", c.Name())

	c.AcquireCreated()
	c.AcquireReused()
	c.AcquireReused()
	c.Returned()
	c.Discarded()
	c.Recovered("take")
	c.Prewarmed(4)
	c.SetSpares(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(PoolAcquireTotal.WithLabelValues("metrics_test_pool", SourceReused)))
	assert.Equal(t, 1.0, testutil.ToFloat64(PoolAcquireTotal.WithLabelValues("metrics_test_pool", SourceCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(PoolReleaseTotal.WithLabelValues("metrics_test_pool", OutcomeDiscarded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(PoolPoisonRecoveries.WithLabelValues("metrics_test_pool", "take")))
	assert.Equal(t, 4.0, testutil.ToFloat64(PoolPrewarmed.WithLabelValues("metrics_test_pool")))
	assert.Equal(t, 3.0, testutil.ToFloat64(PoolSpares.WithLabelValues("metrics_test_pool")))
	assert.Equal(t, 1.0, testutil.ToFloat64(PoolInUse.WithLabelValues("metrics_test_pool")))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("op")
	time.Sleep(time.Millisecond)
	assert.Equal(t, "op", timer.Name())
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
}

func TestThroughputTracker(t *testing.T) {
	tracker := NewThroughputTracker("")
	tracker.Increment(100)
	time.Sleep(5 * time.Millisecond)

	perSec := tracker.GetAndReset()
	assert.Greater(t, perSec, 0.0)
	assert.Equal(t, perSec, testutil.ToFloat64(Throughput.WithLabelValues("default")))
}

func TestLatencyTracker(t *testing.T) {
	l := NewLatencyTracker(3)
	assert.Equal(t, time.Duration(0), l.GetPercentile(50))

	for _, d := range []time.Duration{50, 10, 30, 20} {
		l.Record(d)
	}
	// 50 was evicted; window is 10, 30, 20
	assert.Equal(t, time.Duration(10), l.GetPercentile(0))
	assert.Equal(t, time.Duration(20), l.GetPercentile(50))
	assert.Equal(t, time.Duration(30), l.GetPercentile(100))
}
