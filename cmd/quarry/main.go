package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quarry/pkg/config"
	"github.com/ajitpratap0/quarry/pkg/dataset"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/ingest"
	"github.com/ajitpratap0/quarry/pkg/logger"
	"github.com/ajitpratap0/quarry/pkg/observability"
)

var version = "0.1.0"

// app holds state shared by every command for one invocation.
type app struct {
	v        *viper.Viper
	cfg      *config.EngineConfig
	log      *zap.Logger
	cache    *dataset.Cache
	shutdown []func(context.Context) error
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry - in-memory analytics over delimited files",
		Long: `Quarry loads large CSV files into a columnar in-memory table using
parallel chunked parsing and answers grouping, joining and summary queries.

A SOURCE argument is either a file path or the name of a dataset declared in
the --config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to YAML engine configuration")
	flags.String("separator", ",", "Field separator (use \\t for tab)")
	flags.String("encoding", "utf-8", "Source encoding label (utf-8, windows-1252, latin1, ...)")
	flags.Int("workers", runtime.NumCPU(), "Parallel ingestion workers")
	flags.Int64("chunk-size", 0, "Target bytes per parallel chunk (0 = one chunk per worker)")
	flags.Bool("infer-types", true, "Infer integer and float values")
	flags.Bool("sequential", false, "Disable parallel chunked ingestion")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")
	flags.Bool("trace", false, "Export OpenTelemetry spans to stderr")
	flags.StringP("output", "o", "table", "Output format (table, json, csv, arrow, avro)")

	_ = a.v.BindPFlags(flags)
	a.v.SetEnvPrefix("QUARRY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newVersionCmd(),
		newHeadCmd(a),
		newDescribeCmd(a),
		newGroupByCmd(a),
		newJoinCmd(a),
		newExportCmd(a),
		newDatasetsCmd(a),
		newBenchCmd(a),
	)
	return root
}

// setup builds the engine configuration from the config file, environment
// and flags, then starts logging, metrics and tracing.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.NewEngineConfig()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.LoadEngineConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	a.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.Logging.LoggerConfig()
	logCfg.OutputPaths = []string{"stderr"}
	log, err := logger.New(logCfg)
	if err != nil {
		return err
	}
	a.log = log.With(zap.String("component", "quarry-cli"), zap.String("command", cmd.Name()))

	a.cache = dataset.NewCache(dataset.Options{Load: a.loader(), Logger: a.log})
	for _, d := range cfg.Datasets {
		if err := a.cache.Register(d.Name, dataset.Source{Path: d.Path, Options: a.datasetOptions(d)}); err != nil {
			return err
		}
	}

	if cfg.Observability.EnableMetrics {
		a.serveMetrics(cfg.Observability.MetricsAddr)
	}
	if cfg.Observability.EnableTracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.SamplingRate = cfg.Observability.TracingSampleRate
		tc.Output = os.Stderr
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return err
		}
		a.shutdown = append(a.shutdown, shutdown)
	}
	return nil
}

// applyOverrides copies flags and QUARRY_* variables that were set
// explicitly over the file configuration.
func (a *app) applyOverrides(cfg *config.EngineConfig) {
	if a.v.IsSet("separator") {
		cfg.Ingest.Separator = a.v.GetString("separator")
	}
	if a.v.IsSet("encoding") {
		cfg.Ingest.Encoding = a.v.GetString("encoding")
	}
	if a.v.IsSet("workers") {
		cfg.Ingest.Workers = a.v.GetInt("workers")
	}
	if a.v.IsSet("chunk-size") {
		cfg.Ingest.ChunkSize = a.v.GetInt64("chunk-size")
	}
	if a.v.IsSet("infer-types") {
		cfg.Ingest.InferTypes = a.v.GetBool("infer-types")
	}
	if a.v.IsSet("sequential") {
		cfg.Ingest.Parallel = !a.v.GetBool("sequential")
	}
	if a.v.IsSet("log-level") || cfg.Logging.Level == "" || a.v.GetString("config") == "" {
		cfg.Logging.Level = a.v.GetString("log-level")
	}
	if addr := a.v.GetString("metrics-addr"); addr != "" {
		cfg.Observability.EnableMetrics = true
		cfg.Observability.MetricsAddr = addr
	}
	if a.v.GetBool("trace") {
		cfg.Observability.EnableTracing = true
	}
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.log.Info("serving metrics", zap.String("addr", addr))
	a.shutdown = append(a.shutdown, srv.Shutdown)
}

func (a *app) teardown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil && a.log != nil {
			a.log.Warn("shutdown failed", zap.Error(err))
		}
	}
	a.shutdown = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}

func (a *app) loader() dataset.LoadFunc {
	if a.cfg.Ingest.Parallel {
		return ingest.ReadFileParallel
	}
	return ingest.ReadFile
}

func (a *app) ingestOptions() ingest.Options {
	return ingest.Options{
		Separator:  a.cfg.Ingest.SeparatorRune(),
		Encoding:   a.cfg.Ingest.Encoding,
		Workers:    a.cfg.Ingest.Workers,
		ChunkSize:  a.cfg.Ingest.ChunkSize,
		InferTypes: a.cfg.Ingest.InferTypes,
		MaxRows:    a.cfg.Ingest.MaxRows,
		Logger:     a.log,
	}
}

func (a *app) datasetOptions(d config.DatasetConfig) ingest.Options {
	opts := a.ingestOptions()
	opts.Separator, opts.Encoding, opts.InferTypes = d.Resolve(a.cfg.Ingest)
	opts.Source = d.Name
	return opts
}

// open returns the table for a dataset name or file path.
func (a *app) open(ctx context.Context, source string) (*frame.Table, error) {
	for _, name := range a.cache.Names() {
		if name == source {
			return a.cache.Get(ctx, name)
		}
	}
	table, stats, err := a.loader()(ctx, source, a.ingestOptions())
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		a.log.Warn("skipped malformed rows",
			zap.String("path", source),
			zap.Int("skipped", stats.Skipped))
	}
	return table, nil
}
