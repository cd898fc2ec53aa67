// Command poolctl inspects reclaim configurations and benchmarks pools
// under a configurable churn workload.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/ajitpratap0/reclaim/internal/workload"
	"github.com/ajitpratap0/reclaim/pkg/compression"
	"github.com/ajitpratap0/reclaim/pkg/config"
	"github.com/ajitpratap0/reclaim/pkg/logger"
	"github.com/ajitpratap0/reclaim/pkg/observability"
	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "poolctl",
		Short: "poolctl - benchmark and inspect reclaim object pools",
		Long: `poolctl drives reclaim pools with a concurrent acquire/fill/release
workload and reports reuse, latency and memory figures.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newVersionCmd(),
		newKindsCmd(),
		newConfigCmd(),
		newBenchCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "poolctl v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List pool kinds and compression algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Pool kinds:")
			for _, k := range config.Kinds {
				fmt.Fprintf(out, "  - %s\n", k)
			}
			fmt.Fprintln(out, "\nCompression algorithms:")
			for _, a := range compression.Algorithms {
				fmt.Fprintf(out, "  - %s\n", a)
			}
		},
	}
}

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Create and validate configuration files",
	}

	var output string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(output); err == nil {
					return poolerrors.New(poolerrors.ErrorTypeFile, "config file already exists (use --force)").
						WithDetail("path", output)
				}
			}
			if err := config.Save(output, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "reclaim.yaml", "Path of the configuration file to write")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadViper(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: %d pools, %d workers x %d iterations\n",
				len(cfg.Pools), cfg.Workload.Workers, cfg.Workload.Iterations)
			return nil
		},
	}

	cfgCmd.AddCommand(initCmd, validateCmd)
	return cfgCmd
}

type benchFlags struct {
	configPath  string
	format      string
	metricsAddr string
	timeout     time.Duration
	workers     int
	iterations  int
	compression string
	panicEvery  int
}

func newBenchCmd() *cobra.Command {
	var f benchFlags

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the churn workload against the configured pools",
		Long: `Run the churn workload against every configured pool and print a report.
Flags override the matching workload settings of the configuration file.

Example:
  poolctl bench --config reclaim.yaml --workers 8 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, f)
		},
	}

	flags := benchCmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "Path to configuration file (defaults and RECLAIM_* env when empty)")
	flags.StringVar(&f.format, "format", formatTable, "Report format (table, json)")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while the bench runs")
	flags.DurationVar(&f.timeout, "timeout", 0, "Abort the run after this long (0 = no limit)")
	flags.IntVar(&f.workers, "workers", 0, "Override workload.workers")
	flags.IntVar(&f.iterations, "iterations", 0, "Override workload.iterations")
	flags.StringVar(&f.compression, "compression", "", "Override workload.compression")
	flags.IntVar(&f.panicEvery, "panic-every", 0, "Override workload.panic_every")
	return benchCmd
}

func runBench(cmd *cobra.Command, f benchFlags) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}

	cfg, err := config.LoadViper(f.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workload.Workers = f.workers
	}
	if flags.Changed("iterations") {
		cfg.Workload.Iterations = f.iterations
	}
	if flags.Changed("compression") {
		cfg.Workload.Compression = f.compression
	}
	if flags.Changed("panic-every") {
		cfg.Workload.PanicEvery = f.panicEvery
	}
	if f.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Address = f.metricsAddr
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.With(zap.String("component", "poolctl"))

	if cfg.Tracing.Enabled {
		shutdown, err := setupTracing(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("failed to flush spans", zap.Error(err))
			}
		}()
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Address != "" {
		srv, err := serveMetrics(cfg.Metrics, log)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	// reported through whatever meter provider the process installed
	registration, err := observability.ObserveRegistry(nil, pool.DefaultRegistry)
	if err != nil {
		return err
	}
	defer func() { _ = registration.Unregister() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	runner, err := workload.NewRunner(cfg,
		workload.WithLogger(logger.Get()),
		workload.WithRegistry(pool.DefaultRegistry),
	)
	if err != nil {
		return err
	}

	report, runErr := runner.Run(ctx)
	if report != nil {
		if err := renderReport(cmd.OutOrStdout(), f.format, report); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func setupTracing(tc config.TracingConfig) (observability.ShutdownFunc, error) {
	cfg := observability.DefaultTracingConfig()
	if tc.ServiceName != "" {
		cfg.ServiceName = tc.ServiceName
	}
	cfg.ServiceVersion = version
	cfg.SamplingRate = tc.SampleRate

	if tc.Output == "" {
		return observability.InitTracing(cfg)
	}

	file, err := os.Create(tc.Output) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeFile, "failed to create trace output").
			WithDetail("path", tc.Output)
	}
	cfg.Writer = file
	shutdown, err := observability.InitTracing(cfg)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return func(ctx context.Context) error {
		return errors.Join(shutdown(ctx), file.Close())
	}, nil
}

// maxScrapeConns bounds concurrent connections to the metrics listener.
const maxScrapeConns = 16

func serveMetrics(mc config.MetricsConfig, log *zap.Logger) (*http.Server, error) {
	path := mc.Path
	if path == "" {
		path = "/metrics"
	}
	ln, err := net.Listen("tcp", mc.Address)
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeConfig, "failed to listen for metrics").
			WithDetail("address", mc.Address)
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("serving metrics", zap.String("address", ln.Addr().String()), zap.String("path", path))
		if err := srv.Serve(netutil.LimitListener(ln, maxScrapeConns)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv, nil
}
