package pool

import "go.uber.org/zap"

// DefaultName labels pools created without WithName.
const DefaultName = "anonymous"

// Option configures a Pool.
type Option func(*options)

type options struct {
	name    string
	logger  *zap.Logger
	metrics bool
}

func defaultOptions() options {
	return options{
		name:   DefaultName,
		logger: zap.NewNop(),
	}
}

// WithName sets the name used in logs, metrics labels and registries.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Pools log nothing by default. Recoveries
// from poisoned storage are logged at Warn once per poisoning episode;
// discarded values are logged at Debug.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics exports the pool's counters to Prometheus, labelled by the
// pool name.
func WithMetrics() Option {
	return func(o *options) {
		o.metrics = true
	}
}
