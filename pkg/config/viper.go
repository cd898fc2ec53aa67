package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// EnvPrefix prefixes environment overrides read by LoadViper, e.g.
// RECLAIM_WORKLOAD_WORKERS=8.
const EnvPrefix = "RECLAIM"

// LoadViper reads path with viper on top of DefaultConfig. Scalar settings
// can be overridden by RECLAIM_<SECTION>_<KEY> environment variables. An
// empty path loads defaults and environment only.
func LoadViper(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	setDefaults(v, def)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to read config").
				WithDetail("path", path)
		}
	}

	cfg := def
	if v.IsSet("pools") {
		// decoding into a longer slice would keep the extra defaults
		cfg.Pools = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can find it.
func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.development", def.Logging.Development)
	v.SetDefault("logging.encoding", def.Logging.Encoding)

	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.address", def.Metrics.Address)
	v.SetDefault("metrics.path", def.Metrics.Path)

	v.SetDefault("tracing.enabled", def.Tracing.Enabled)
	v.SetDefault("tracing.service_name", def.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", def.Tracing.SampleRate)
	v.SetDefault("tracing.output", def.Tracing.Output)

	v.SetDefault("workload.workers", def.Workload.Workers)
	v.SetDefault("workload.iterations", def.Workload.Iterations)
	v.SetDefault("workload.fill", def.Workload.Fill)
	v.SetDefault("workload.hold", def.Workload.Hold)
	v.SetDefault("workload.rate_per_sec", def.Workload.RatePerSec)
	v.SetDefault("workload.compression", def.Workload.Compression)
	v.SetDefault("workload.panic_every", def.Workload.PanicEvery)
}
