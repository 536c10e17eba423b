package export

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// ArrowSchema returns the Arrow schema WriteArrow uses for t. Every field
// is nullable.
func ArrowSchema(t *frame.Table) *arrow.Schema {
	cols := columns(t)
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name(), Type: arrowType(columnType(c)), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(ft fieldType) arrow.DataType {
	switch ft {
	case fieldInt:
		return arrow.PrimitiveTypes.Int64
	case fieldFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// WriteArrow writes t as an Arrow IPC stream in batches of
// DefaultBatchSize rows.
func WriteArrow(w io.Writer, t *frame.Table) error {
	return writeArrow(w, t, DefaultBatchSize)
}

func writeArrow(w io.Writer, t *frame.Table, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	pool := memory.NewGoAllocator()
	schema := ArrowSchema(t)
	cols := columns(t)

	sw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for start := 0; start < t.NumRows(); start += batchSize {
		end := start + batchSize
		if end > t.NumRows() {
			end = t.NumRows()
		}
		for i, c := range cols {
			appendArrowColumn(builder.Field(i), c, start, end)
		}
		record := builder.NewRecord()
		err := sw.Write(record)
		record.Release()
		if err != nil {
			_ = sw.Close()
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write Arrow record batch")
		}
	}

	if err := sw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow stream")
	}
	return nil
}

func appendArrowColumn(b array.Builder, c frame.Column, start, end int) {
	b.Reserve(end - start)
	switch fb := b.(type) {
	case *array.Int64Builder:
		for i := start; i < end; i++ {
			if v, ok := c.At(i).AsInt(); ok {
				fb.Append(v)
			} else {
				fb.AppendNull()
			}
		}
	case *array.Float64Builder:
		for i := start; i < end; i++ {
			if v, ok := c.At(i).AsFloat(); ok {
				fb.Append(v)
			} else {
				fb.AppendNull()
			}
		}
	case *array.StringBuilder:
		for i := start; i < end; i++ {
			v := c.At(i)
			if v.Kind() == scalar.KindNull {
				fb.AppendNull()
				continue
			}
			fb.Append(v.Format())
		}
	}
}
