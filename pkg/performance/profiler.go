package performance

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// ProfileType represents the type of profiling to perform
type ProfileType string

const (
	CPUProfile       ProfileType = "cpu"
	MemoryProfile    ProfileType = "memory"
	BlockProfile     ProfileType = "block"
	MutexProfile     ProfileType = "mutex"
	GoroutineProfile ProfileType = "goroutine"
	TraceProfile     ProfileType = "trace"
	AllProfiles      ProfileType = "all"
)

// ParseProfileType maps a name to a ProfileType.
func ParseProfileType(s string) (ProfileType, error) {
	switch t := ProfileType(s); t {
	case CPUProfile, MemoryProfile, BlockProfile, MutexProfile, GoroutineProfile, TraceProfile, AllProfiles:
		return t, nil
	default:
		return "", poolerrors.New(poolerrors.ErrorTypeValidation, "unknown profile type").
			WithDetail("type", s)
	}
}

// ProfileConfig contains configuration for profiling
type ProfileConfig struct {
	// Profile types to collect
	Types []ProfileType

	// Output directory for profile files
	OutputDir string

	// Block profile rate (0 = disabled)
	BlockProfileRate int

	// Mutex profile fraction (0 = disabled)
	MutexProfileFraction int
}

// DefaultProfileConfig returns a default profiling configuration
func DefaultProfileConfig() *ProfileConfig {
	return &ProfileConfig{
		Types:                []ProfileType{CPUProfile, MemoryProfile},
		OutputDir:            "./profiles",
		BlockProfileRate:     1,
		MutexProfileFraction: 1,
	}
}

// Profiler writes pprof profiles and execution traces for the span between
// Start and Stop.
type Profiler struct {
	config    *ProfileConfig
	logger    *zap.Logger
	startTime time.Time
	cpuFile   *os.File
	traceFile *os.File
	written   []string
}

// NewProfiler creates a new profiler instance
func NewProfiler(config *ProfileConfig, logger *zap.Logger) *Profiler {
	if config == nil {
		config = DefaultProfileConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{config: config, logger: logger}
}

func (p *Profiler) wants(t ProfileType) bool {
	for _, have := range p.config.Types {
		if have == t || have == AllProfiles {
			return true
		}
	}
	return false
}

// Start creates the output directory and begins CPU profiling and tracing
// when requested.
func (p *Profiler) Start() error {
	p.startTime = time.Now()

	if err := os.MkdirAll(p.config.OutputDir, 0o755); err != nil { //nolint:gosec // profiles are not secret
		return poolerrors.Wrap(err, poolerrors.ErrorTypeFile, "failed to create profile directory").
			WithDetail("dir", p.config.OutputDir)
	}

	if p.wants(BlockProfile) && p.config.BlockProfileRate > 0 {
		runtime.SetBlockProfileRate(p.config.BlockProfileRate)
	}
	if p.wants(MutexProfile) && p.config.MutexProfileFraction > 0 {
		runtime.SetMutexProfileFraction(p.config.MutexProfileFraction)
	}

	if p.wants(CPUProfile) {
		file, err := p.create(CPUProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(file); err != nil {
			_ = file.Close()
			return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to start CPU profiling")
		}
		p.cpuFile = file
	}

	if p.wants(TraceProfile) {
		file, err := p.create(TraceProfile)
		if err != nil {
			p.stopCPU()
			return err
		}
		if err := trace.Start(file); err != nil {
			_ = file.Close()
			p.stopCPU()
			return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to start trace")
		}
		p.traceFile = file
	}

	p.logger.Info("profiling started",
		zap.String("output_dir", p.config.OutputDir),
		zap.Any("types", p.config.Types))
	return nil
}

// Stop ends profiling, writes the snapshot profiles and returns the paths
// of every file written.
func (p *Profiler) Stop() ([]string, error) {
	p.stopCPU()

	if p.traceFile != nil {
		trace.Stop()
		_ = p.traceFile.Close()
		p.written = append(p.written, p.traceFile.Name())
		p.traceFile = nil
	}

	var firstErr error
	save := func(t ProfileType, name string, debug int) {
		if !p.wants(t) {
			return
		}
		if err := p.writeLookup(t, name, debug); err != nil {
			p.logger.Error("failed to save profile", zap.String("type", string(t)), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if p.wants(MemoryProfile) {
		runtime.GC()
	}
	save(MemoryProfile, "heap", 0)
	save(BlockProfile, "block", 0)
	save(MutexProfile, "mutex", 0)
	save(GoroutineProfile, "goroutine", 2)

	p.logger.Info("profiling completed",
		zap.Duration("duration", time.Since(p.startTime)),
		zap.Strings("files", p.written))
	return p.written, firstErr
}

func (p *Profiler) stopCPU() {
	if p.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = p.cpuFile.Close()
	p.written = append(p.written, p.cpuFile.Name())
	p.cpuFile = nil
}

func (p *Profiler) writeLookup(t ProfileType, name string, debug int) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return poolerrors.New(poolerrors.ErrorTypeCapability, "profile not available").WithDetail("profile", name)
	}
	file, err := p.create(t)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := prof.WriteTo(file, debug); err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeFile, "failed to write profile").
			WithDetail("file", file.Name())
	}
	p.written = append(p.written, file.Name())
	return nil
}

func (p *Profiler) create(t ProfileType) (*os.File, error) {
	ext := "prof"
	if t == TraceProfile {
		ext = "out"
	}
	path := filepath.Join(p.config.OutputDir, fmt.Sprintf("%s_%s.%s", t, p.startTime.Format("20060102_150405"), ext))
	file, err := os.Create(path) //nolint:gosec // path is built from configuration
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeFile, "failed to create profile file").
			WithDetail("file", path)
	}
	return file, nil
}
