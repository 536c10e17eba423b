package export

import (
	"bufio"
	"io"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// WriteJSON writes t as a JSON array with one object per row. Keys follow
// column order; Null and non-finite floats are written as null.
func WriteJSON(w io.Writer, t *frame.Table) error {
	cols := columns(t)
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		k, err := gojson.Marshal(c.Name())
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode column name")
		}
		keys[i] = k
	}

	bw := bufio.NewWriter(w)
	var buf []byte
	buf = append(buf, '[')
	for r := 0; r < t.NumRows(); r++ {
		if r > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '{')
		for i, c := range cols {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, keys[i]...)
			buf = append(buf, ':')
			var err error
			if buf, err = appendJSONValue(buf, c.At(r)); err != nil {
				return err
			}
		}
		buf = append(buf, '}')
		if len(buf) >= 32*1024 {
			if _, err := bw.Write(buf); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON")
			}
			buf = buf[:0]
		}
	}
	buf = append(buf, ']', '\n')
	if _, err := bw.Write(buf); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write JSON")
	}
	return nil
}

func appendJSONValue(buf []byte, v scalar.Scalar) ([]byte, error) {
	if f, ok := v.AsFloat(); ok && v.Kind() == scalar.KindFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return append(buf, "null"...), nil
	}
	b, err := gojson.Marshal(v.Interface())
	if err != nil {
		return buf, errors.Wrap(err, errors.ErrorTypeData, "failed to encode value")
	}
	return append(buf, b...), nil
}
