package ingest

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/logger"
)

// Options configures a read.
type Options struct {
	// Separator is the field separator. Zero selects ','.
	Separator rune
	// Encoding is a WHATWG encoding label such as "utf-8" or
	// "windows-1252". Empty selects UTF-8.
	Encoding string
	// Workers bounds parallel ingestion workers. Zero selects the number of
	// CPUs.
	Workers int
	// ChunkSize is the target number of bytes per parallel chunk. Zero
	// splits the data section into one chunk per worker.
	ChunkSize int64
	// InferTypes converts fields to Integer, Float or Text. When false every
	// non-empty field is Text and empty fields are Null.
	InferTypes bool
	// MaxRows stops reading after this many data rows. Zero reads
	// everything. Parallel reads with a limit fall back to ReadFile.
	MaxRows int
	// Source labels metrics and logs. Empty selects the file base name.
	Source string
	// Logger receives progress and diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns comma-separated UTF-8 with type inference on.
func DefaultOptions() Options {
	return Options{
		Separator:  ',',
		Encoding:   "utf-8",
		InferTypes: true,
	}
}

func (o Options) normalize(ctx context.Context, path string) (Options, error) {
	if o.Separator == 0 {
		o.Separator = ','
	}
	if o.Separator == '"' || o.Separator == '\n' || o.Separator == '\r' {
		return o, errors.Newf(errors.ErrorTypeValidation, "invalid separator %q", o.Separator)
	}
	if o.Encoding == "" {
		o.Encoding = "utf-8"
	}
	if o.Workers < 0 || o.MaxRows < 0 || o.ChunkSize < 0 {
		return o, errors.New(errors.ErrorTypeValidation, "workers, chunk size and max rows must not be negative")
	}
	if o.Source == "" {
		o.Source = filepath.Base(path)
	}
	o.Logger = logger.WithContext(ctx, o.Logger)
	return o, nil
}

// Stats describes a completed read.
type Stats struct {
	Rows     int           // data rows kept
	Skipped  int           // data rows dropped for a field-count mismatch
	Chunks   int           // byte-range chunks parsed; 1 for sequential reads
	Bytes    int64         // bytes of input consumed
	Duration time.Duration // wall time of the read
}
