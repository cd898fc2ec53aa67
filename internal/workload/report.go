package workload

import (
	"time"

	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/performance"
	"github.com/ajitpratap0/reclaim/pkg/pool"
)

// Report is the outcome of one Run.
type Report struct {
	RunID       string                     `json:"run_id"`
	StartedAt   time.Time                  `json:"started_at"`
	Duration    time.Duration              `json:"duration"`
	Workload    config.WorkloadConfig      `json:"workload"`
	Pools       []PoolReport               `json:"pools"`
	Compression *CompressionReport         `json:"compression,omitempty"`
	Resources   *performance.ResourceUsage `json:"resources,omitempty"`
}

// PoolReport is the outcome of running the workload against one pool.
type PoolReport struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Shared   bool          `json:"shared"`
	Workers  int           `json:"workers"`
	Cycles   int64         `json:"cycles"`
	Panics   int64         `json:"injected_panics"`
	Duration time.Duration `json:"duration"`
	// Throughput is completed cycles per second
	Throughput float64       `json:"throughput"`
	P50        time.Duration `json:"p50"`
	P99        time.Duration `json:"p99"`
	Stats      pool.Stats    `json:"stats"`
	Spares     int           `json:"spares"`
	Poisoned   bool          `json:"poisoned"`
}

// CompressionReport describes the codec pool shared by all pool runs.
type CompressionReport struct {
	Algorithm string     `json:"algorithm"`
	Pool      string     `json:"pool"`
	Stats     pool.Stats `json:"stats"`
}

// TotalCycles sums the completed cycles of every pool.
func (r *Report) TotalCycles() int64 {
	var n int64
	for _, p := range r.Pools {
		n += p.Cycles
	}
	return n
}
