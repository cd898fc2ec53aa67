// Package reclaim provides generic object-reuse pools for Go: vectors, maps,
// sets, strings, deques, heaps and byte buffers that are handed out empty,
// used, and taken back cleared with their capacity intact.
//
// # Architecture
//
// The pool package is the core. A pool.Pool[T] sits over a pool.Storage[T],
// either single-owner (no locking) or shared (mutex-guarded, with poison
// tracking when a panic unwinds through a critical section). Values leave
// the pool wrapped in a pool.Guard whose Release clears the value and
// returns it.
//
// Everything else is built on top of it:
//
//	pkg/pool         - Pool, Guard, storages, container pools, Registry
//	pkg/containers   - Clearable container types (Vec, HashMap, Deque, ...)
//	pkg/json         - JSON encoding into pooled buffers
//	pkg/compression  - Pooled codecs for gzip, snappy, lz4, zstd, s2, deflate
//	pkg/config       - YAML/TOML configuration with RECLAIM_* overrides
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus collectors for pool counters
//	pkg/observability - OpenTelemetry spans and registry gauges
//	pkg/performance  - Resource sampling and pprof capture
//	pkg/poolerrors   - Typed errors
//
// # Quick Start
//
//	p := pool.NewSharedVecPool[int](pool.WithName("ids"))
//	if err := p.Prewarm(8); err != nil {
//	    return err
//	}
//
//	err := p.With(func(v *containers.Vec[int]) error {
//	    v.Extend(1, 2, 3)
//	    return process(v.Slice())
//	})
//
// # Tools
//
//	poolctl bench -c reclaim.yaml   - churn every configured pool and report reuse
//	poolctl config init             - write the default configuration
//	profile -types cpu,mutex        - run the churn workload under pprof
package reclaim
