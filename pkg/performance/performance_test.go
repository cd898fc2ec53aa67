package performance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/reclaim/pkg/testutil"
)

func TestResourceMonitorReportsProcess(t *testing.T) {
	rm, err := NewResourceMonitor()
	require.NoError(t, err)

	sink := make([][]byte, 0, 64)
	for i := 0; i < 64; i++ {
		sink = append(sink, make([]byte, 1024))
	}
	_ = sink

	usage := rm.GetResourceUsage()
	assert.Positive(t, usage.HeapAlloc)
	assert.Positive(t, usage.GoroutineCount)
	assert.GreaterOrEqual(t, usage.CPUPercent, 0.0)

	rm.Reset()
	assert.NotNil(t, rm.GetResourceUsage())
}

func TestProfilerWritesRequestedProfiles(t *testing.T) {
	dir := t.TempDir()
	p := NewProfiler(&ProfileConfig{
		Types:     []ProfileType{CPUProfile, MemoryProfile, GoroutineProfile},
		OutputDir: dir,
	}, testutil.TestLogger(t))

	require.NoError(t, p.Start())
	busy := 0
	for i := 0; i < 1_000_000; i++ {
		busy += i % 7
	}
	_ = busy

	files, err := p.Stop()
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		assert.Equal(t, dir, filepath.Dir(f))
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), f)
	}
}

func TestParseProfileType(t *testing.T) {
	pt, err := ParseProfileType("mutex")
	require.NoError(t, err)
	assert.Equal(t, MutexProfile, pt)

	_, err = ParseProfileType("flame")
	assert.Error(t, err)
}
