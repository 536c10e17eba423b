package frame

import (
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// Describe summarises every column holding at least one numeric value. The
// result has one row per such column, in column order, with the columns
// column, count, mean, min, max and sum computed over the numeric values
// only.
func (t *Table) Describe() *Table {
	names := []string{"column", "count", "mean", "min", "max", "sum"}
	data := make(map[string][]scalar.Scalar, len(names))
	for _, n := range names {
		data[n] = []scalar.Scalar{}
	}
	for _, name := range t.names {
		numeric := make([]scalar.Scalar, 0, t.rows)
		for _, v := range t.data[name] {
			if v.IsNumeric() {
				numeric = append(numeric, v)
			}
		}
		if len(numeric) == 0 {
			continue
		}
		// numeric-only input cannot fail to reduce
		mean, _ := reduce(numeric, nil, Mean)
		lo, _ := reduce(numeric, nil, Min)
		hi, _ := reduce(numeric, nil, Max)
		sum, _ := reduce(numeric, nil, Sum)
		data["column"] = append(data["column"], scalar.Text(name))
		data["count"] = append(data["count"], scalar.Int(int64(len(numeric))))
		data["mean"] = append(data["mean"], mean)
		data["min"] = append(data["min"], lo)
		data["max"] = append(data["max"], hi)
		data["sum"] = append(data["sum"], sum)
	}
	out, _ := build(names, data)
	return out
}
