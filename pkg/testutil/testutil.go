// Package testutil provides testing utilities for reclaim packages.
package testutil

import (
	"context"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ObservedLogger returns a logger that records entries at level and above
// for later inspection.
func ObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// AssertEventually asserts that a condition becomes true within the specified timeout.
// It checks the condition every 10ms until it succeeds or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// MemoryProfile captures memory statistics
type MemoryProfile struct {
	HeapAlloc  uint64
	TotalAlloc uint64
	Mallocs    uint64
	Frees      uint64
}

// CaptureMemoryProfile captures current memory profile
func CaptureMemoryProfile() MemoryProfile {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryProfile{
		HeapAlloc:  m.HeapAlloc,
		TotalAlloc: m.TotalAlloc,
		Mallocs:    m.Mallocs,
		Frees:      m.Frees,
	}
}

// MallocsDuring returns the number of heap allocations performed while fn
// ran. Other goroutines contribute to the count.
func MallocsDuring(fn func()) uint64 {
	before := CaptureMemoryProfile()
	fn()
	after := CaptureMemoryProfile()
	return after.Mallocs - before.Mallocs
}
