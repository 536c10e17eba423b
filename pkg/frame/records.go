package frame

import (
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// Records returns the table as row-oriented maps for serialization. Null
// becomes nil, Integer int64, Float float64 and Text string.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, t.rows)
	for i := range out {
		rec := make(map[string]interface{}, len(t.names))
		for _, name := range t.names {
			rec[name] = t.data[name][i].Interface()
		}
		out[i] = rec
	}
	return out
}

// FromRecords builds a table from row maps. When columns is empty the
// column set is taken from the keys of the first row in sorted order, since
// map iteration order carries no meaning. Keys missing from a row become
// Null; keys not in columns are ignored.
func FromRecords(columns []string, rows []map[string]interface{}) (*Table, error) {
	if len(columns) == 0 {
		if len(rows) == 0 {
			return nil, errors.New(errors.ErrorTypeValidation, "no columns and no records")
		}
		columns = sortedKeys(rows[0])
	}
	data := make(map[string][]scalar.Scalar, len(columns))
	for _, name := range columns {
		values := make([]scalar.Scalar, len(rows))
		for i, rec := range rows {
			if v, ok := rec[name]; ok {
				values[i] = scalar.FromInterface(v)
			}
		}
		data[name] = values
	}
	return build(append([]string(nil), columns...), data)
}
