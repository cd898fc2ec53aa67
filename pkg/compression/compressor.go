// Package compression provides pooled compression codecs.
//
// # Overview
//
// The compression package provides:
//   - Multiple compression algorithms (Gzip, Snappy, LZ4, Zstd, S2, Deflate)
//   - Configurable compression levels (Fastest, Default, Better, Best)
//   - Codec state (encoder, decoder and scratch buffer) recycled through a
//     shared reclaim pool
//   - Both in-memory and streaming operations
//
// # Algorithm Selection
//
// Choose algorithms based on your requirements:
//   - Snappy/S2: Best for speed, moderate compression
//   - LZ4: Extremely fast, decent compression
//   - Zstd: Best compression ratio, good speed
//   - Gzip: Wide compatibility, good compression
//   - Deflate: Standard algorithm, wide support
//
// # Basic Usage
//
//	cp, err := compression.NewCompressorPool(&compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Default,
//	})
//	if err != nil {
//	    return err
//	}
//
//	compressed, err := cp.Compress(data)
//	original, err := cp.Decompress(compressed)
//
// Each call borrows a codec from the pool and returns it cleared, so the
// encoder and its scratch buffer are reused across calls and goroutines.
package compression

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// Algorithm represents a compression algorithm.
// Each algorithm has different trade-offs between speed and compression ratio.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents deflate compression
	Deflate Algorithm = "deflate"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

// ParseAlgorithm maps a configuration string to an Algorithm. The empty
// string means None.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return None, nil
	}
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", poolerrors.New(poolerrors.ErrorTypeValidation,
		fmt.Sprintf("unsupported compression algorithm: %s", s))
}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Fastest:
		return "fastest"
	case Default:
		return "default"
	case Better:
		return "better"
	case Best:
		return "best"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Config represents compressor configuration.
type Config struct {
	Algorithm  Algorithm // Compression algorithm to use
	Level      Level     // Compression level
	BufferSize int       // Initial scratch buffer capacity per codec
}

// DefaultConfig returns default compression configuration optimized for
// balance between speed and compression ratio. Uses Snappy algorithm
// with 64KB buffers.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:  Snappy,
		Level:      Default,
		BufferSize: 64 * 1024,
	}
}

// CompressorPool compresses and decompresses with codecs borrowed from a
// shared pool. It is safe for concurrent use.
type CompressorPool struct {
	config Config
	codecs *pool.Pool[codec]
}

// NewCompressorPool creates a compressor pool for config. If config is nil,
// DefaultConfig is used. The pool is named "compress_<algorithm>" unless a
// WithName option overrides it.
func NewCompressorPool(config *Config, opts ...pool.Option) (*CompressorPool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.Algorithm == "" {
		cfg.Algorithm = None
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}

	newFn, err := codecFactory(cfg)
	if err != nil {
		return nil, err
	}

	opts = append([]pool.Option{pool.WithName("compress_" + string(cfg.Algorithm))}, opts...)
	return &CompressorPool{
		config: cfg,
		codecs: pool.NewShared(newFn, opts...),
	}, nil
}

// Algorithm returns the compression algorithm used.
func (cp *CompressorPool) Algorithm() Algorithm {
	return cp.config.Algorithm
}

// Level returns the compression level configured.
func (cp *CompressorPool) Level() Level {
	return cp.config.Level
}

// Pool exposes the underlying codec pool for statistics and registries.
func (cp *CompressorPool) Pool() pool.Reporter {
	return cp.codecs
}

// Prewarm creates n codecs ahead of use.
func (cp *CompressorPool) Prewarm(n int) error {
	return cp.codecs.Prewarm(n)
}

// Compress compresses data and returns a newly allocated result.
// The input data is not modified.
func (cp *CompressorPool) Compress(data []byte) ([]byte, error) {
	return cp.AppendCompress(nil, data)
}

// AppendCompress appends the compressed form of data to dst.
func (cp *CompressorPool) AppendCompress(dst, data []byte) ([]byte, error) {
	err := cp.codecs.With(func(c codec) error {
		out, err := c.compress(dst, data)
		if err != nil {
			return err
		}
		dst = out
		return nil
	})
	if err != nil {
		return nil, cp.wrap(err, "compress failed")
	}
	return dst, nil
}

// Decompress decompresses data and returns a newly allocated result.
// The input data is not modified.
func (cp *CompressorPool) Decompress(data []byte) ([]byte, error) {
	return cp.AppendDecompress(nil, data)
}

// AppendDecompress appends the decompressed form of data to dst.
func (cp *CompressorPool) AppendDecompress(dst, data []byte) ([]byte, error) {
	err := cp.codecs.With(func(c codec) error {
		out, err := c.decompress(dst, data)
		if err != nil {
			return err
		}
		dst = out
		return nil
	})
	if err != nil {
		return nil, cp.wrap(err, "decompress failed")
	}
	return dst, nil
}

// CompressStream compresses from src to dst.
func (cp *CompressorPool) CompressStream(dst io.Writer, src io.Reader) error {
	err := cp.codecs.With(func(c codec) error {
		return c.compressStream(dst, src)
	})
	return cp.wrap(err, "compress stream failed")
}

// DecompressStream decompresses from src to dst.
func (cp *CompressorPool) DecompressStream(dst io.Writer, src io.Reader) error {
	err := cp.codecs.With(func(c codec) error {
		return c.decompressStream(dst, src)
	})
	return cp.wrap(err, "decompress stream failed")
}

// Close drops the idle codecs.
func (cp *CompressorPool) Close() {
	cp.codecs.Close()
}

func (cp *CompressorPool) wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, msg).
		WithDetail("algorithm", string(cp.config.Algorithm)).
		WithDetail("level", cp.config.Level.String())
}
