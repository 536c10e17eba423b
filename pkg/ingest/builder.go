package ingest

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/pool"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// maxSkipWarnings bounds per-reader warnings about malformed rows.
const maxSkipWarnings = 10

// parseHeader decodes and splits the header line. A leading byte-order mark
// is dropped and names are trimmed.
func parseHeader(raw string, sep rune) ([]string, error) {
	line := strings.TrimSpace(strings.TrimPrefix(raw, utf8BOM))
	if line == "" {
		return nil, errors.New(errors.ErrorTypeData, "missing header line")
	}
	names := ParseLine(line, sep)
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			return nil, errors.Newf(errors.ErrorTypeData, "duplicate header column %q", name).
				WithDetail("column", name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names, nil
}

// rowBuilder accumulates parsed lines into columns. One builder is owned
// by one goroutine.
type rowBuilder struct {
	columns  [][]scalar.Scalar
	sep      rune
	infer    func(string) scalar.Scalar
	interner *pool.Interner
	decoder  *encoding.Decoder // nil when input is already UTF-8
	logger   *zap.Logger
	fields   []string

	rows     int
	skipped  int
	warnings int
}

func newRowBuilder(numCols int, opts Options, dec *encoding.Decoder) *rowBuilder {
	infer := scalar.InferText
	if opts.InferTypes {
		infer = scalar.Infer
	}
	return &rowBuilder{
		columns:  make([][]scalar.Scalar, numCols),
		sep:      opts.Separator,
		infer:    infer,
		interner: internerPool.Get(),
		decoder:  dec,
		logger:   opts.Logger,
		fields:   make([]string, 0, numCols),
	}
}

// release returns the interner to its pool. The builder accepts no more
// lines afterwards; the strings already interned stay valid.
func (b *rowBuilder) release() {
	if b.interner != nil {
		internerPool.Put(b.interner)
		b.interner = nil
	}
}

// addLine parses one raw line, newline included or not. where locates the
// line in diagnostics.
func (b *rowBuilder) addLine(raw []byte, where zap.Field) {
	if b.decoder != nil {
		decoded, err := b.decoder.Bytes(raw)
		if err != nil {
			b.skip(where, 0, err)
			return
		}
		raw = decoded
	}
	line := strings.TrimSpace(string(raw))
	if line == "" {
		return
	}
	b.fields = appendFields(b.fields[:0], line, b.sep)
	if len(b.fields) != len(b.columns) {
		b.skip(where, len(b.fields), nil)
		return
	}
	for c, field := range b.fields {
		v := b.infer(field)
		if s, ok := v.AsText(); ok {
			v = scalar.Text(b.interner.Intern(s))
		}
		b.columns[c] = append(b.columns[c], v)
	}
	b.rows++
}

func (b *rowBuilder) skip(where zap.Field, got int, err error) {
	b.skipped++
	if b.warnings >= maxSkipWarnings {
		return
	}
	b.warnings++
	fields := []zap.Field{where, zap.Int("fields", got), zap.Int("expected", len(b.columns))}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	b.logger.Warn("skipping malformed row", fields...)
}

// table hands the accumulated columns to a new table.
func (b *rowBuilder) table(names []string) (*frame.Table, error) {
	return assemble(names, []*rowBuilder{b})
}

// assemble concatenates builder columns in the given order.
func assemble(names []string, parts []*rowBuilder) (*frame.Table, error) {
	total := 0
	for _, p := range parts {
		total += p.rows
	}
	data := make(map[string][]scalar.Scalar, len(names))
	for c, name := range names {
		if len(parts) == 1 {
			col := parts[0].columns[c]
			if col == nil {
				col = []scalar.Scalar{}
			}
			data[name] = col
			continue
		}
		col := make([]scalar.Scalar, 0, total)
		for _, p := range parts {
			col = append(col, p.columns[c]...)
		}
		data[name] = col
	}
	return frame.FromColumnsOwned(names, data)
}
