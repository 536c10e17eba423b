package config

import (
	"runtime"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/logger"
)

// EngineConfig is the configuration of a Quarry process: ingestion
// defaults, the datasets to register, logging and observability.
type EngineConfig struct {
	// Ingest holds defaults applied to every read
	Ingest IngestConfig `yaml:"ingest" json:"ingest"`

	// Datasets lists named files served through the dataset cache
	Datasets []DatasetConfig `yaml:"datasets" json:"datasets"`

	// Logging configures the global zap logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Observability settings for monitoring and debugging
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// IngestConfig contains reader defaults.
type IngestConfig struct {
	// Separator is the single-character field separator
	Separator string `yaml:"separator" json:"separator"`
	// Encoding is a WHATWG encoding label
	Encoding string `yaml:"encoding" json:"encoding"`
	// Workers bounds parallel ingestion (0 = number of CPUs)
	Workers int `yaml:"workers" json:"workers"`
	// ChunkSize is the target bytes per parallel chunk (0 = one per worker)
	ChunkSize int64 `yaml:"chunk_size" json:"chunk_size"`
	// InferTypes enables per-value type inference
	InferTypes bool `yaml:"infer_types" json:"infer_types"`
	// MaxRows limits rows read per file (0 = unlimited)
	MaxRows int `yaml:"max_rows" json:"max_rows"`
	// Parallel selects the chunked reader
	Parallel bool `yaml:"parallel" json:"parallel"`
}

// DatasetConfig names one source file. Empty or nil fields inherit the
// ingest defaults.
type DatasetConfig struct {
	Name       string `yaml:"name" json:"name"`
	Path       string `yaml:"path" json:"path"`
	Separator  string `yaml:"separator,omitempty" json:"separator,omitempty"`
	Encoding   string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	InferTypes *bool  `yaml:"infer_types,omitempty" json:"infer_types,omitempty"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
	Encoding    string `yaml:"encoding" json:"encoding"`
}

// ObservabilityConfig contains metrics and tracing settings.
type ObservabilityConfig struct {
	// EnableMetrics exposes Prometheus metrics on MetricsAddr
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// MetricsAddr is the listen address of the /metrics endpoint
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
	// EnableTracing exports spans to stderr
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// TracingSampleRate is the fraction of traces sampled
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// NewEngineConfig creates an EngineConfig with defaults: comma-separated
// UTF-8, inference on, one worker per CPU, info-level JSON logging.
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		Ingest: IngestConfig{
			Separator:  ",",
			Encoding:   "utf-8",
			Workers:    runtime.NumCPU(),
			InferTypes: true,
			Parallel:   true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Observability: ObservabilityConfig{
			EnableMetrics:     false,
			MetricsAddr:       ":9090",
			EnableTracing:     false,
			TracingSampleRate: 1.0,
		},
	}
}

// Validate checks the configuration for correctness.
func (c *EngineConfig) Validate() error {
	if err := validateSeparator(c.Ingest.Separator, "ingest.separator"); err != nil {
		return err
	}
	if c.Ingest.Workers < 0 {
		return invalid("ingest.workers cannot be negative")
	}
	if c.Ingest.ChunkSize < 0 {
		return invalid("ingest.chunk_size cannot be negative")
	}
	if c.Ingest.MaxRows < 0 {
		return invalid("ingest.max_rows cannot be negative")
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return invalid("logging.level %q is not a valid level", c.Logging.Level)
		}
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return invalid("observability.tracing_sample_rate must be within [0, 1]")
	}
	seen := make(map[string]struct{}, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.Name == "" {
			return invalid("datasets[%d].name is required", i)
		}
		if d.Path == "" {
			return invalid("dataset %q: path is required", d.Name)
		}
		if _, dup := seen[d.Name]; dup {
			return invalid("dataset %q is defined more than once", d.Name)
		}
		seen[d.Name] = struct{}{}
		if d.Separator != "" {
			if err := validateSeparator(d.Separator, "dataset "+d.Name+" separator"); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoggerConfig converts the logging section for logger.New.
func (l LoggingConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       l.Level,
		Development: l.Development,
		Encoding:    l.Encoding,
	}
}

// SeparatorRune returns the separator as a rune, ',' when unset.
func (i *IngestConfig) SeparatorRune() rune {
	return separatorRune(i.Separator)
}

// Resolve returns the dataset settings with ingest defaults filled in.
func (d DatasetConfig) Resolve(defaults IngestConfig) (sep rune, encoding string, infer bool) {
	sep = defaults.SeparatorRune()
	if d.Separator != "" {
		sep = separatorRune(d.Separator)
	}
	encoding = defaults.Encoding
	if d.Encoding != "" {
		encoding = d.Encoding
	}
	infer = defaults.InferTypes
	if d.InferTypes != nil {
		infer = *d.InferTypes
	}
	return sep, encoding, infer
}

func separatorRune(s string) rune {
	if s == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func validateSeparator(s, field string) error {
	if s == "" || s == `\t` {
		return nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return invalid("%s must be a single character, got %q", field, s)
	}
	if s == `"` || s == "\n" || s == "\r" {
		return invalid("%s cannot be %q", field, s)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrorTypeConfig, format, args...)
}
