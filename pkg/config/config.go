package config

import (
	"runtime"
	"time"

	"github.com/ajitpratap0/reclaim/pkg/logger"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// Pool kinds accepted in PoolConfig.Kind.
const (
	KindVec     = "vec"
	KindHashMap = "hashmap"
	KindHashSet = "hashset"
	KindString  = "string"
	KindDeque   = "deque"
	KindHeap    = "heap"
	KindBuffer  = "buffer"
)

// Kinds lists every supported pool kind.
var Kinds = []string{KindVec, KindHashMap, KindHashSet, KindString, KindDeque, KindHeap, KindBuffer}

// Compression algorithm names accepted in WorkloadConfig.Compression.
var compressionAlgorithms = []string{"", "none", "gzip", "snappy", "lz4", "zstd", "s2", "deflate"}

// Config is the top-level configuration of the reclaim tooling.
type Config struct {
	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" toml:"logging" mapstructure:"logging"`

	// Metrics configures the Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics" mapstructure:"metrics"`

	// Tracing configures OpenTelemetry spans for workload runs
	Tracing TracingConfig `yaml:"tracing" toml:"tracing" mapstructure:"tracing"`

	// Pools lists the pools to build and exercise
	Pools []PoolConfig `yaml:"pools" toml:"pools" mapstructure:"pools"`

	// Workload drives every configured pool
	Workload WorkloadConfig `yaml:"workload" toml:"workload" mapstructure:"workload"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Enabled turns on per-pool Prometheus collectors
	Enabled bool `yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	// Address to serve /metrics on while a bench runs; empty disables the listener
	Address string `yaml:"address" toml:"address" mapstructure:"address"`
	// Path of the metrics handler
	Path string `yaml:"path" toml:"path" mapstructure:"path"`
}

// TracingConfig controls workload tracing.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
	ServiceName string  `yaml:"service_name" toml:"service_name" mapstructure:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" toml:"sample_rate" mapstructure:"sample_rate"`
	// Output is a file path for exported spans; empty writes to stdout
	Output string `yaml:"output" toml:"output" mapstructure:"output"`
}

// PoolConfig describes one pool.
type PoolConfig struct {
	// Name labels the pool in logs, metrics and reports
	Name string `yaml:"name" toml:"name" mapstructure:"name"`
	// Kind selects the container type (vec, hashmap, hashset, string, deque, heap, buffer)
	Kind string `yaml:"kind" toml:"kind" mapstructure:"kind"`
	// Shared selects mutex-guarded storage instead of single-owner storage
	Shared bool `yaml:"shared" toml:"shared" mapstructure:"shared"`
	// Prewarm is the number of values built before the workload starts
	Prewarm int `yaml:"prewarm" toml:"prewarm" mapstructure:"prewarm"`
}

// WorkloadConfig describes the churn generated against each pool.
type WorkloadConfig struct {
	// Workers is the number of goroutines; single-owner pools always use one
	Workers int `yaml:"workers" toml:"workers" mapstructure:"workers"`
	// Iterations is the number of acquire/release cycles per worker
	Iterations int `yaml:"iterations" toml:"iterations" mapstructure:"iterations"`
	// Fill is the number of elements written into each value per cycle
	Fill int `yaml:"fill" toml:"fill" mapstructure:"fill"`
	// Hold is how long each value is held before release
	Hold time.Duration `yaml:"hold" toml:"hold" mapstructure:"hold"`
	// RatePerSec caps cycles per second across all workers (0 = unlimited)
	RatePerSec float64 `yaml:"rate_per_sec" toml:"rate_per_sec" mapstructure:"rate_per_sec"`
	// Compression compresses each filled buffer with the named algorithm
	Compression string `yaml:"compression" toml:"compression" mapstructure:"compression"`
	// PanicEvery injects a panic in every Nth cycle while the value is held (0 = never)
	PanicEvery int `yaml:"panic_every" toml:"panic_every" mapstructure:"panic_every"`
}

// DefaultConfig returns a configuration with one pool of each kind and a
// short workload.
func DefaultConfig() *Config {
	cfg := &Config{
		Logging: logger.Config{
			Level:    "info",
			Encoding: "console",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
		Tracing: TracingConfig{
			ServiceName: "reclaim",
			SampleRate:  1.0,
		},
		Workload: WorkloadConfig{
			Workers:    runtime.NumCPU(),
			Iterations: 10000,
			Fill:       64,
		},
	}
	for _, kind := range Kinds {
		cfg.Pools = append(cfg.Pools, PoolConfig{
			Name:    kind,
			Kind:    kind,
			Shared:  true,
			Prewarm: cfg.Workload.Workers,
		})
	}
	return cfg
}

// Validate checks the configuration and returns a config error describing
// the first problem found.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Pools))
	for i, p := range c.Pools {
		if p.Name == "" {
			return invalid("pool name is required").WithDetail("index", i)
		}
		if seen[p.Name] {
			return invalid("duplicate pool name").WithDetail("pool", p.Name)
		}
		seen[p.Name] = true

		if !contains(Kinds, p.Kind) {
			return invalid("unknown pool kind").
				WithDetail("pool", p.Name).
				WithDetail("kind", p.Kind)
		}
		if p.Prewarm < 0 {
			return invalid("prewarm must not be negative").WithDetail("pool", p.Name)
		}
	}

	w := c.Workload
	switch {
	case w.Workers <= 0:
		return invalid("workload.workers must be positive").WithDetail("workers", w.Workers)
	case w.Iterations <= 0:
		return invalid("workload.iterations must be positive").WithDetail("iterations", w.Iterations)
	case w.Fill < 0:
		return invalid("workload.fill must not be negative").WithDetail("fill", w.Fill)
	case w.Hold < 0:
		return invalid("workload.hold must not be negative").WithDetail("hold", w.Hold)
	case w.RatePerSec < 0:
		return invalid("workload.rate_per_sec must not be negative").WithDetail("rate_per_sec", w.RatePerSec)
	case w.PanicEvery < 0:
		return invalid("workload.panic_every must not be negative").WithDetail("panic_every", w.PanicEvery)
	case !contains(compressionAlgorithms, w.Compression):
		return invalid("unknown compression algorithm").WithDetail("compression", w.Compression)
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return invalid("tracing.sample_rate must be between 0 and 1").
			WithDetail("sample_rate", c.Tracing.SampleRate)
	}
	return nil
}

func invalid(msg string) *poolerrors.Error {
	return poolerrors.New(poolerrors.ErrorTypeConfig, msg)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
