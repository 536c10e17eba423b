package ingest

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/transform"

	"github.com/ajitpratap0/quarry/pkg/compression"
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/metrics"
	"github.com/ajitpratap0/quarry/pkg/observability"
)

const (
	readBufferSize = 256 * 1024
	// ctxCheckLines is how often long loops poll for cancellation.
	ctxCheckLines = 4096
)

// ReadFile reads a delimited file sequentially. Files ending in .gz, .zst,
// .lz4, .sz or .s2 are decompressed on the fly.
func ReadFile(ctx context.Context, path string, opts Options) (*frame.Table, Stats, error) {
	opts, err := opts.normalize(ctx, path)
	if err != nil {
		return nil, Stats{}, err
	}
	return readFile(ctx, path, opts)
}

// readFile is ReadFile for options that are already normalized.
func readFile(ctx context.Context, path string, opts Options) (*frame.Table, Stats, error) {
	ctx, span := observability.StartSpan(ctx, "ingest.read_file",
		attribute.String("path", path),
		attribute.String("mode", "sequential"))
	table, stats, err := readSequential(ctx, path, opts)
	span.SetAttribute("rows", stats.Rows)
	span.SetAttribute("skipped", stats.Skipped)
	span.End(err)
	if err != nil {
		return nil, stats, err
	}
	record(opts, "sequential", stats)
	return table, stats, nil
}

func readSequential(ctx context.Context, path string, opts Options) (*frame.Table, Stats, error) {
	start := time.Now()
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, Stats{}, err
	}
	rc, err := compression.OpenFile(path)
	if err != nil {
		return nil, Stats{}, openError(path, err)
	}
	defer rc.Close()

	counter := &countingReader{r: rc}
	var src io.Reader = counter
	if enc != nil {
		src = transform.NewReader(counter, enc.NewDecoder())
	}
	br := bufio.NewReaderSize(src, readBufferSize)

	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, Stats{}, errors.Wrap(err, errors.ErrorTypeFile, "read header").WithDetail("path", path)
	}
	names, err := parseHeader(header, opts.Separator)
	if err != nil {
		return nil, Stats{}, withPath(err, path)
	}

	b := newRowBuilder(len(names), opts, nil)
	lineNo := 1
	for opts.MaxRows == 0 || b.rows < opts.MaxRows {
		line, rerr := readLine(br)
		if len(line) > 0 {
			lineNo++
			b.addLine(line, zap.Int("line", lineNo))
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, Stats{}, errors.Wrap(rerr, errors.ErrorTypeFile, "read data").
				WithDetail("path", path).
				WithDetail("line", lineNo)
		}
		if lineNo%ctxCheckLines == 0 {
			if err := ctx.Err(); err != nil {
				return nil, Stats{}, err
			}
		}
	}

	b.release()
	table, err := b.table(names)
	if err != nil {
		return nil, Stats{}, err
	}
	return table, Stats{
		Rows:     b.rows,
		Skipped:  b.skipped,
		Chunks:   1,
		Bytes:    counter.n,
		Duration: time.Since(start),
	}, nil
}

// record publishes metrics and a summary log line for a completed read.
func record(opts Options, mode string, stats Stats) {
	metrics.RowsIngested.WithLabelValues(opts.Source).Add(float64(stats.Rows))
	metrics.RowsSkipped.WithLabelValues(opts.Source).Add(float64(stats.Skipped))
	metrics.IngestDuration.WithLabelValues(opts.Source, mode).Observe(stats.Duration.Seconds())
	if mode == "parallel" {
		metrics.IngestChunks.WithLabelValues(opts.Source).Add(float64(stats.Chunks))
	}
	opts.Logger.Info("file ingested",
		zap.String("source", opts.Source),
		zap.String("mode", mode),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("chunks", stats.Chunks),
		zap.Int64("bytes", stats.Bytes),
		zap.Duration("duration", stats.Duration))
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrorTypeNotFound, "file not found").WithDetail("path", path)
	}
	if errors.IsType(err, errors.ErrorTypeFile) || errors.IsType(err, errors.ErrorTypeConfig) {
		return withPath(err, path)
	}
	return errors.Wrap(err, errors.ErrorTypeFile, "open file").WithDetail("path", path)
}

func withPath(err error, path string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithDetail("path", path)
	}
	return err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// readLine returns the next line including its newline. The slice aliases
// the reader's buffer unless the line is longer than the buffer, in which
// case the fragments are copied out before the buffer is refilled.
func readLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadSlice('\n')
	if err != bufio.ErrBufferFull {
		return line, err
	}
	buf := append([]byte(nil), line...)
	for err == bufio.ErrBufferFull {
		line, err = br.ReadSlice('\n')
		buf = append(buf, line...)
	}
	return buf, err
}
