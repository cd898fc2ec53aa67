// Package config provides configuration for the reclaim tooling: which
// pools to build, how to drive them, and how to log, trace and export
// metrics while doing so.
//
// # Key Features
//
// - Config: one structure with Logging, Metrics, Tracing, Pools and Workload sections
// - Environment variable substitution with ${VAR_NAME} syntax in YAML files
// - Viper loading with RECLAIM_ prefixed environment overrides
// - Defaults via DefaultConfig and validation via Validate
//
// # Usage
//
// ## Loading a YAML file
//
//	cfg, err := config.LoadFile("reclaim.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Loading with environment overrides
//
//	// RECLAIM_WORKLOAD_WORKERS=32 overrides workload.workers
//	cfg, err := config.LoadViper("reclaim.yaml")
//
// ## Environment Variable Substitution
//
// YAML files loaded with Load or LoadFile may reference environment
// variables:
//
//	metrics:
//	  address: "${METRICS_ADDR}"
//
// Unset variables expand to the empty string.
//
// # Example Configuration
//
//	logging:
//	  level: info
//	  encoding: console
//	pools:
//	  - name: frames
//	    kind: buffer
//	    shared: true
//	    prewarm: 16
//	workload:
//	  workers: 8
//	  iterations: 100000
//	  fill: 256
//	  hold: 50us
//	  compression: zstd
package config
