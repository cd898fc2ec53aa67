package compression

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

var sample = bytes.Repeat([]byte("This is a test string that will be compressed and decompressed. "+
	"It contains some repetitive content content content to improve compression ratio.\n"), 64)

func TestRoundTripAllAlgorithms(t *testing.T) {
	for _, algo := range Algorithms {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(fmt.Sprintf("%s/%s", algo, level), func(t *testing.T) {
				cp, err := NewCompressorPool(&Config{Algorithm: algo, Level: level})
				require.NoError(t, err)
				defer cp.Close()

				compressed, err := cp.Compress(sample)
				require.NoError(t, err)
				if algo != None {
					assert.Less(t, len(compressed), len(sample))
				}

				decompressed, err := cp.Decompress(compressed)
				require.NoError(t, err)
				assert.Equal(t, sample, decompressed)
			})
		}
	}
}

func TestStreamRoundTrip(t *testing.T) {
	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			cp, err := NewCompressorPool(&Config{Algorithm: algo, Level: Default})
			require.NoError(t, err)

			var compressed bytes.Buffer
			require.NoError(t, cp.CompressStream(&compressed, bytes.NewReader(sample)))

			var decompressed bytes.Buffer
			require.NoError(t, cp.DecompressStream(&decompressed, &compressed))
			assert.Equal(t, sample, decompressed.Bytes())
		})
	}
}

func TestCodecsAreReused(t *testing.T) {
	cp, err := NewCompressorPool(&Config{Algorithm: Zstd})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		out, err := cp.Compress(sample)
		require.NoError(t, err)
		_, err = cp.Decompress(out)
		require.NoError(t, err)
	}

	stats := cp.Pool().Stats()
	assert.Equal(t, int64(40), stats.Acquired)
	assert.Equal(t, int64(1), stats.Created)
	assert.Equal(t, int64(39), stats.Reused)
	assert.Equal(t, "compress_zstd", cp.Pool().Name())
}

func TestResultsDoNotAliasScratch(t *testing.T) {
	cp, err := NewCompressorPool(&Config{Algorithm: Snappy})
	require.NoError(t, err)

	first, err := cp.Compress([]byte("first payload first payload"))
	require.NoError(t, err)
	snapshot := append([]byte(nil), first...)

	_, err = cp.Compress([]byte("second payload that overwrites the scratch buffer"))
	require.NoError(t, err)
	assert.Equal(t, snapshot, first)
}

func TestAppendVariants(t *testing.T) {
	cp, err := NewCompressorPool(&Config{Algorithm: LZ4})
	require.NoError(t, err)

	out, err := cp.AppendCompress([]byte("hdr"), sample)
	require.NoError(t, err)
	assert.Equal(t, []byte("hdr"), out[:3])

	plain, err := cp.AppendDecompress([]byte("x"), out[3:])
	require.NoError(t, err)
	assert.Equal(t, append([]byte("x"), sample...), plain)
}

func TestCorruptInputIsReported(t *testing.T) {
	for _, algo := range []Algorithm{Gzip, Zstd, Snappy, S2, LZ4, Deflate} {
		t.Run(string(algo), func(t *testing.T) {
			cp, err := NewCompressorPool(&Config{Algorithm: algo})
			require.NoError(t, err)

			_, err = cp.Decompress([]byte("definitely not compressed"))
			require.Error(t, err)
			assert.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeInternal))

			// the codec survives the failure
			out, err := cp.Compress(sample)
			require.NoError(t, err)
			back, err := cp.Decompress(out)
			require.NoError(t, err)
			assert.Equal(t, sample, back)
			assert.Equal(t, int64(0), cp.Pool().Stats().InUse)
		})
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewCompressorPool(&Config{Algorithm: "brotli"})
	require.Error(t, err)
	assert.True(t, poolerrors.IsType(err, poolerrors.ErrorTypeValidation))

	_, err = ParseAlgorithm("brotli")
	assert.Error(t, err)

	algo, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, algo)

	algo, err = ParseAlgorithm("s2")
	require.NoError(t, err)
	assert.Equal(t, S2, algo)
}

func TestDefaultsAndOptions(t *testing.T) {
	cp, err := NewCompressorPool(nil, pool.WithName("custom"))
	require.NoError(t, err)
	assert.Equal(t, Snappy, cp.Algorithm())
	assert.Equal(t, Default, cp.Level())
	assert.Equal(t, "custom", cp.Pool().Name())

	require.NoError(t, cp.Prewarm(3))
	size, err := cp.Pool().Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestConcurrentCompression(t *testing.T) {
	cp, err := NewCompressorPool(&Config{Algorithm: Gzip, Level: Fastest})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			payload := bytes.Repeat([]byte(fmt.Sprintf("worker-%d ", w)), 200)
			for i := 0; i < 50; i++ {
				out, err := cp.Compress(payload)
				if !assert.NoError(t, err) {
					return
				}
				back, err := cp.Decompress(out)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, payload, back)
			}
		}(w)
	}
	wg.Wait()

	stats := cp.Pool().Stats()
	assert.Equal(t, int64(800), stats.Acquired)
	assert.LessOrEqual(t, stats.Created, int64(8))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "fastest", Fastest.String())
	assert.Equal(t, "best", Best.String())
	assert.Equal(t, "level(3)", Level(3).String())
}
