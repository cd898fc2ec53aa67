package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/performance"
)

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes("cpu, memory,,mutex")
	require.NoError(t, err)
	assert.Equal(t, []performance.ProfileType{
		performance.CPUProfile, performance.MemoryProfile, performance.MutexProfile,
	}, types)

	_, err = parseProfileTypes("cpu,flame")
	require.Error(t, err)
}

func TestRunWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"
	cfg.Workload.Workers = 2
	cfg.Workload.Iterations = 20
	cfg.Pools = cfg.Pools[:1]
	cfgPath := filepath.Join(dir, "reclaim.yaml")
	require.NoError(t, config.Save(cfgPath, cfg))

	outDir := filepath.Join(dir, "profiles")
	var out bytes.Buffer
	err := run([]string{"-config", cfgPath, "-output", outDir, "-types", "memory,goroutine"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Completed 40 cycles")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, run([]string{"-bogus"}, &out))
}
