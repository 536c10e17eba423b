// Package export writes tables to JSON, CSV, Arrow IPC, Avro OCF and
// human-readable text.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajitpratap0/quarry/pkg/compression"
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
)

// Format represents an output format
type Format string

const (
	// JSON is an array of objects, one per row
	JSON Format = "json"
	// CSV is delimited text with a header line
	CSV Format = "csv"
	// Arrow is an Apache Arrow IPC stream
	Arrow Format = "arrow"
	// Avro is an Apache Avro object container file
	Avro Format = "avro"
	// Table is a bordered text table for terminals
	Table Format = "table"
)

// DefaultBatchSize is the number of rows per Arrow record batch.
const DefaultBatchSize = 64 * 1024

// Config configures Write.
type Config struct {
	Format Format
	// Separator is the CSV field separator. Zero selects ','.
	Separator rune
	// BatchSize is the number of rows per Arrow record batch.
	BatchSize int
	// MaxRows limits Table output. Zero or less prints every row.
	MaxRows int
	// Compression wraps the output stream.
	Compression compression.Algorithm
	// Level is the compression level.
	Level compression.Level
}

// FormatInfo provides information about an output format
type FormatInfo struct {
	Format        Format
	Name          string
	FileExtension string
	MIMEType      string
	Binary        bool
}

var formatInfo = map[Format]FormatInfo{
	JSON:  {Format: JSON, Name: "JSON", FileExtension: ".json", MIMEType: "application/json"},
	CSV:   {Format: CSV, Name: "Comma-separated values", FileExtension: ".csv", MIMEType: "text/csv"},
	Arrow: {Format: Arrow, Name: "Apache Arrow IPC stream", FileExtension: ".arrows", MIMEType: "application/vnd.apache.arrow.stream", Binary: true},
	Avro:  {Format: Avro, Name: "Apache Avro", FileExtension: ".avro", MIMEType: "application/avro", Binary: true},
	Table: {Format: Table, Name: "Text table", FileExtension: ".txt", MIMEType: "text/plain"},
}

// GetFormatInfo returns information about a format, or nil if unknown.
func GetFormatInfo(f Format) *FormatInfo {
	info, ok := formatInfo[f]
	if !ok {
		return nil
	}
	return &info
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := formatInfo[f]; !ok {
		return "", errors.Newf(errors.ErrorTypeValidation, "unsupported export format %q", name)
	}
	return f, nil
}

// DetectFormat infers the format from a path, ignoring a trailing
// compression extension. ".tsv" selects CSV.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(stripCompression(path)))
	switch ext {
	case ".tsv", ".csv":
		return CSV, nil
	case ".arrow", ".arrows":
		return Arrow, nil
	}
	for f, info := range formatInfo {
		if info.FileExtension == ext {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "cannot infer export format from %q", path).WithDetail("path", path)
}

// Write encodes t to w in cfg.Format, compressing when cfg.Compression is
// set.
func Write(w io.Writer, t *frame.Table, cfg Config) (err error) {
	if cfg.Compression != "" && cfg.Compression != compression.None {
		cw, werr := compression.NewWriter(w, cfg.Compression, cfg.Level)
		if werr != nil {
			return werr
		}
		defer func() {
			if cerr := cw.Close(); err == nil && cerr != nil {
				err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to finish compressed output")
			}
		}()
		w = cw
	}

	switch cfg.Format {
	case JSON:
		return WriteJSON(w, t)
	case CSV:
		return WriteCSV(w, t, cfg.Separator)
	case Arrow:
		return writeArrow(w, t, cfg.BatchSize)
	case Avro:
		return WriteAvro(w, t)
	case Table:
		return Pretty(w, t, cfg.MaxRows)
	default:
		return errors.Newf(errors.ErrorTypeValidation, "unsupported export format %q", cfg.Format)
	}
}

// WriteFile writes t to path. An empty cfg.Format is inferred from the
// path, as is the compression algorithm when cfg.Compression is empty.
// A ".tsv" path defaults the separator to a tab.
func WriteFile(path string, t *frame.Table, cfg Config) (err error) {
	if cfg.Format == "" {
		if cfg.Format, err = DetectFormat(path); err != nil {
			return err
		}
	}
	if cfg.Compression == "" {
		cfg.Compression = compression.Detect(path)
	}
	if cfg.Separator == 0 && strings.EqualFold(filepath.Ext(stripCompression(path)), ".tsv") {
		cfg.Separator = '\t'
	}

	f, err := os.Create(path) //nolint:gosec // G304: path is supplied by the caller
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file").WithDetail("path", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close output file").WithDetail("path", path)
		}
	}()
	return Write(f, t, cfg)
}

// stripCompression removes a trailing compression extension from path.
func stripCompression(path string) string {
	if compression.Detect(path) == compression.None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func columns(t *frame.Table) []frame.Column {
	names := t.Columns()
	cols := make([]frame.Column, len(names))
	for i, name := range names {
		cols[i], _ = t.Column(name)
	}
	return cols
}
