package frame

import (
	"sort"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// Select projects the named columns in the given order.
func (t *Table) Select(columns ...string) (*Table, error) {
	if err := t.requireColumns(columns); err != nil {
		return nil, err
	}
	data := make(map[string][]scalar.Scalar, len(columns))
	for _, name := range columns {
		data[name] = cloneValues(t.data[name])
	}
	return build(append([]string(nil), columns...), data)
}

// Drop removes the named columns. Names t does not have are ignored.
func (t *Table) Drop(columns ...string) *Table {
	drop := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		drop[name] = struct{}{}
	}
	keep := make([]string, 0, len(t.names))
	for _, name := range t.names {
		if _, ok := drop[name]; !ok {
			keep = append(keep, name)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Filter keeps the rows for which keep returns true, preserving order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	indices := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(Row{t: t, i: i}) {
			indices = append(indices, i)
		}
	}
	return t.take(indices)
}

// FilterByValue keeps the rows whose column equals value.
func (t *Table) FilterByValue(column string, value scalar.Scalar) (*Table, error) {
	values, ok := t.data[column]
	if !ok {
		return nil, errors.ColumnNotFound(column)
	}
	indices := make([]int, 0)
	for i, v := range values {
		if scalar.Equal(v, value) {
			indices = append(indices, i)
		}
	}
	return t.take(indices), nil
}

// Sort orders rows lexicographically by the given columns. A single
// ascending flag applies to every key. The sort is stable: rows with equal
// keys keep their relative order in both directions.
func (t *Table) Sort(columns []string, ascending bool) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "sort requires at least one column")
	}
	if err := t.requireColumns(columns); err != nil {
		return nil, err
	}
	keys := make([][]scalar.Scalar, len(columns))
	for k, name := range columns {
		keys[k] = t.data[name]
	}
	indices := make([]int, t.rows)
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		ra, rb := indices[a], indices[b]
		for _, key := range keys {
			c := scalar.Compare(key[ra], key[rb])
			if c == 0 {
				continue
			}
			if ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return t.take(indices), nil
}

// Head returns the first n rows. n is clamped to [0, NumRows].
func (t *Table) Head(n int) *Table {
	n = clamp(n, t.rows)
	return t.slice(0, n)
}

// Tail returns the last n rows. n is clamped to [0, NumRows].
func (t *Table) Tail(n int) *Table {
	n = clamp(n, t.rows)
	return t.slice(t.rows-n, t.rows)
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func (t *Table) slice(from, to int) *Table {
	data := make(map[string][]scalar.Scalar, len(t.names))
	for _, name := range t.names {
		data[name] = cloneValues(t.data[name][from:to])
	}
	return &Table{names: t.Columns(), data: data, rows: to - from}
}

// take gathers the given rows into a new table.
func (t *Table) take(indices []int) *Table {
	data := make(map[string][]scalar.Scalar, len(t.names))
	for _, name := range t.names {
		src := t.data[name]
		dst := make([]scalar.Scalar, len(indices))
		for j, i := range indices {
			dst[j] = src[i]
		}
		data[name] = dst
	}
	return &Table{names: t.Columns(), data: data, rows: len(indices)}
}
