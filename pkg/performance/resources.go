// Package performance provides resource sampling and pprof capture for
// reclaim workloads.
package performance

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage contains resource usage information
type ResourceUsage struct {
	CPUPercent            float64 `json:"cpu_percent"`
	SystemCPUPercent      float64 `json:"system_cpu_percent"`
	MemoryRSS             uint64  `json:"memory_rss"`
	MemoryVMS             uint64  `json:"memory_vms"`
	HeapAlloc             uint64  `json:"heap_alloc"`
	NumGC                 uint32  `json:"num_gc"`
	SystemMemoryPercent   float64 `json:"system_memory_percent"`
	SystemMemoryAvailable uint64  `json:"system_memory_available"`
	GoroutineCount        int     `json:"goroutines"`
	ThreadCount           int32   `json:"threads"`
}

// ResourceMonitor monitors the resources of the current process. CPU
// usage is averaged since the monitor was created.
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.RWMutex
}

// NewResourceMonitor creates a resource monitor for the current process.
func NewResourceMonitor() (*ResourceMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits in int32
	if err != nil {
		return nil, err
	}

	rm := &ResourceMonitor{
		process:   proc,
		startTime: time.Now(),
	}
	if cpuTime, err := proc.Times(); err == nil {
		rm.startCPUTime = cpuTime.Total()
	}
	return rm, nil
}

// Reset restarts the CPU averaging window.
func (rm *ResourceMonitor) Reset() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.startTime = time.Now()
	if cpuTime, err := rm.process.Times(); err == nil {
		rm.startCPUTime = cpuTime.Total()
	}
}

// GetResourceUsage returns current resource usage. Fields the platform
// cannot report are left zero.
func (rm *ResourceMonitor) GetResourceUsage() *ResourceUsage {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	usage := &ResourceUsage{}

	if cpuTime, err := rm.process.Times(); err == nil {
		if elapsed := time.Since(rm.startTime).Seconds(); elapsed > 0 {
			usage.CPUPercent = ((cpuTime.Total() - rm.startCPUTime) / elapsed) * 100
		}
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		usage.SystemCPUPercent = percents[0]
	}

	if memInfo, err := rm.process.MemoryInfo(); err == nil {
		usage.MemoryRSS = memInfo.RSS
		usage.MemoryVMS = memInfo.VMS
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
		usage.SystemMemoryAvailable = vmStat.Available
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	usage.HeapAlloc = memStats.HeapAlloc
	usage.NumGC = memStats.NumGC

	usage.GoroutineCount = runtime.NumGoroutine()
	usage.ThreadCount, _ = rm.process.NumThreads()

	return usage
}
