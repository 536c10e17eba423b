package ingest

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/quarry/internal/parallel"
	"github.com/ajitpratap0/quarry/pkg/compression"
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/observability"
	"github.com/ajitpratap0/quarry/pkg/pool"
)

// chunk is the byte range [start, end) of the data section assigned to one
// worker.
type chunk struct {
	index      int
	start, end int64
}

var readerPool = pool.New(
	func() *bufio.Reader { return bufio.NewReaderSize(nil, readBufferSize) },
	func(r *bufio.Reader) { r.Reset(nil) },
)

var internerPool = pool.New(
	func() *pool.Interner { return pool.NewInterner(0) },
	(*pool.Interner).Reset,
)

// ReadFileParallel reads a delimited file by splitting its data section
// into byte-range chunks parsed concurrently. The result is identical to
// ReadFile for any worker count. Compressed files, encodings whose bytes
// cannot be split on newlines, and reads with MaxRows fall back to ReadFile.
func ReadFileParallel(ctx context.Context, path string, opts Options) (*frame.Table, Stats, error) {
	opts, err := opts.normalize(ctx, path)
	if err != nil {
		return nil, Stats{}, err
	}
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, Stats{}, err
	}
	if reason := sequentialReason(path, opts, lineSplittable(enc, opts.Separator)); reason != "" {
		opts.Logger.Debug("parallel read falling back to sequential",
			zap.String("path", path), zap.String("reason", reason))
		return readFile(ctx, path, opts)
	}

	ctx, span := observability.StartSpan(ctx, "ingest.read_file",
		attribute.String("path", path),
		attribute.String("mode", "parallel"))
	table, stats, err := readParallel(ctx, path, opts)
	span.SetAttribute("rows", stats.Rows)
	span.SetAttribute("skipped", stats.Skipped)
	span.SetAttribute("chunks", stats.Chunks)
	span.End(err)
	if err != nil {
		return nil, stats, err
	}
	record(opts, "parallel", stats)
	return table, stats, nil
}

func sequentialReason(path string, opts Options, splittable bool) string {
	switch {
	case compression.Detect(path) != compression.None:
		return "compressed input"
	case !splittable:
		return "encoding is not line-splittable"
	case opts.MaxRows > 0:
		return "row limit"
	}
	return ""
}

func readParallel(ctx context.Context, path string, opts Options) (*frame.Table, Stats, error) {
	start := time.Now()
	names, dataStart, size, err := readHeaderAt(path, opts)
	if err != nil {
		return nil, Stats{}, err
	}

	chunks := planChunks(dataStart, size, opts.Workers, opts.ChunkSize)
	cfg := parallel.Config{Name: "ingest:" + opts.Source, NumWorkers: opts.Workers, Logger: opts.Logger}
	parts, err := parallel.Map(ctx, cfg, chunks, func(ctx context.Context, _ int, c chunk) (*rowBuilder, error) {
		return parseChunk(ctx, path, names, c, opts)
	})
	if err != nil {
		return nil, Stats{}, err
	}

	table, err := assemble(names, parts)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := Stats{Chunks: len(chunks), Bytes: size, Duration: time.Since(start)}
	for _, p := range parts {
		stats.Rows += p.rows
		stats.Skipped += p.skipped
	}
	return table, stats, nil
}

// readHeaderAt parses the header line and returns the offset where data
// begins along with the file size.
func readHeaderAt(path string, opts Options) ([]string, int64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, openError(path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, errors.ErrorTypeFile, "stat file").WithDetail("path", path)
	}

	br := readerPool.Get()
	defer readerPool.Put(br)
	br.Reset(f)
	raw, err := br.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, 0, 0, errors.Wrap(err, errors.ErrorTypeFile, "read header").WithDetail("path", path)
	}
	dataStart := int64(len(raw))

	enc, _ := lookupEncoding(opts.Encoding)
	if enc != nil {
		if raw, err = enc.NewDecoder().Bytes(raw); err != nil {
			return nil, 0, 0, errors.Wrap(err, errors.ErrorTypeData, "decode header").WithDetail("path", path)
		}
	}
	names, err := parseHeader(string(raw), opts.Separator)
	if err != nil {
		return nil, 0, 0, withPath(err, path)
	}
	return names, dataStart, info.Size(), nil
}

// planChunks splits [dataStart, size) into contiguous ranges. With a chunk
// size each range is about that long; otherwise there is one range per
// worker. The last range always ends at size.
func planChunks(dataStart, size int64, workers int, chunkSize int64) []chunk {
	total := size - dataStart
	if total <= 0 {
		return nil
	}
	n := int64(parallel.Config{NumWorkers: workers}.Workers(0))
	if chunkSize > 0 {
		n = (total + chunkSize - 1) / chunkSize
	}
	if n > total {
		n = total
	}
	step := total / n
	chunks := make([]chunk, n)
	for i := range chunks {
		chunks[i] = chunk{
			index: i,
			start: dataStart + int64(i)*step,
			end:   dataStart + int64(i+1)*step,
		}
	}
	chunks[n-1].end = size
	return chunks
}

// parseChunk parses the records whose first byte lies in c using its own
// file handle, decoder and interner.
func parseChunk(ctx context.Context, path string, names []string, c chunk, opts Options) (*rowBuilder, error) {
	ctx, span := observability.StartSpan(ctx, "ingest.chunk",
		attribute.Int("chunk", c.index),
		attribute.Int64("start", c.start),
		attribute.Int64("end", c.end))
	b, err := scanChunk(ctx, path, names, c, opts)
	if b != nil {
		b.release()
		span.SetAttribute("rows", b.rows)
	}
	span.End(err)
	return b, err
}

func scanChunk(ctx context.Context, path string, names []string, c chunk, opts Options) (*rowBuilder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "stat file").WithDetail("path", path)
	}

	pos := c.start
	atLineStart := c.index == 0
	if !atLineStart {
		var prev [1]byte
		if _, err := f.ReadAt(prev[:], c.start-1); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "read chunk boundary").WithDetail("path", path)
		}
		atLineStart = prev[0] == '\n'
	}

	br := readerPool.Get()
	defer readerPool.Put(br)
	br.Reset(io.NewSectionReader(f, pos, info.Size()-pos))

	if !atLineStart {
		// the line in progress belongs to an earlier chunk
		partial, err := br.ReadSlice('\n')
		for err == bufio.ErrBufferFull {
			pos += int64(len(partial))
			partial, err = br.ReadSlice('\n')
		}
		pos += int64(len(partial))
		if err == io.EOF {
			return newRowBuilder(len(names), opts, nil), nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "read chunk").WithDetail("path", path)
		}
	}

	b := newRowBuilder(len(names), opts, nil)
	if enc, _ := lookupEncoding(opts.Encoding); enc != nil {
		b.decoder = enc.NewDecoder()
	}

	lines := 0
	for pos < c.end {
		lineStart := pos
		line, err := readLine(br)
		pos += int64(len(line))
		if len(line) > 0 {
			b.addLine(line, zap.Int64("offset", lineStart))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "read chunk").
				WithDetail("path", path).
				WithDetail("offset", lineStart)
		}
		lines++
		if lines%ctxCheckLines == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}
