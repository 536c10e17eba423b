package frame

import (
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// Table is an immutable collection of equal-length named columns.
type Table struct {
	names []string
	data  map[string][]scalar.Scalar
	rows  int
}

// New builds a table from columns in the given order. Column names must be
// unique and every column must have the same length.
func New(columns ...Column) (*Table, error) {
	names := make([]string, len(columns))
	data := make(map[string][]scalar.Scalar, len(columns))
	for i, c := range columns {
		names[i] = c.name
		data[c.name] = cloneValues(c.values)
	}
	return build(names, data)
}

// FromColumns builds a table from a name list and a name-to-values map. The
// values are copied.
func FromColumns(names []string, values map[string][]scalar.Scalar) (*Table, error) {
	data := make(map[string][]scalar.Scalar, len(names))
	for _, name := range names {
		v, ok := values[name]
		if !ok {
			return nil, errors.ColumnNotFound(name)
		}
		data[name] = cloneValues(v)
	}
	return build(append([]string(nil), names...), data)
}

// FromColumnsOwned is FromColumns without the copy: the table takes
// ownership of names and of every slice in values, which the caller must not
// modify afterwards. Ingestion uses it to hand over freshly built columns.
func FromColumnsOwned(names []string, values map[string][]scalar.Scalar) (*Table, error) {
	return build(names, values)
}

// Empty returns a zero-row table with the given columns.
func Empty(names ...string) (*Table, error) {
	data := make(map[string][]scalar.Scalar, len(names))
	for _, name := range names {
		data[name] = []scalar.Scalar{}
	}
	return build(append([]string(nil), names...), data)
}

// build validates and takes ownership of names and data.
func build(names []string, data map[string][]scalar.Scalar) (*Table, error) {
	if len(data) != len(names) {
		return nil, duplicateColumnError(names)
	}
	rows := -1
	for _, name := range names {
		values, ok := data[name]
		if !ok {
			return nil, errors.ColumnNotFound(name)
		}
		if rows == -1 {
			rows = len(values)
			continue
		}
		if len(values) != rows {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d values, expected %d", name, len(values), rows).
				WithDetail("column", name)
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &Table{names: names, data: data, rows: rows}, nil
}

func duplicateColumnError(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate column %q", name).
				WithDetail("column", name)
		}
		seen[name] = struct{}{}
	}
	return errors.New(errors.ErrorTypeValidation, "column names and data do not match")
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.names...) }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.names) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.rows, len(t.names) }

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, error) {
	values, ok := t.data[name]
	if !ok {
		return Column{}, errors.ColumnNotFound(name)
	}
	return NewColumn(name, values), nil
}

// Values returns a copy of the named column's values.
func (t *Table) Values(name string) ([]scalar.Scalar, error) {
	values, ok := t.data[name]
	if !ok {
		return nil, errors.ColumnNotFound(name)
	}
	return cloneValues(values), nil
}

// At returns the value of column name at row i.
func (t *Table) At(i int, name string) (scalar.Scalar, error) {
	values, ok := t.data[name]
	if !ok {
		return scalar.Null(), errors.ColumnNotFound(name)
	}
	if i < 0 || i >= t.rows {
		return scalar.Null(), errors.Newf(errors.ErrorTypeValidation,
			"row %d out of range [0, %d)", i, t.rows)
	}
	return values[i], nil
}

// Row returns a view of row i. It panics if i is out of range.
func (t *Table) Row(i int) Row {
	if i < 0 || i >= t.rows {
		panic("frame: row index out of range")
	}
	return Row{t: t, i: i}
}

// Copy returns a deep copy of t.
func (t *Table) Copy() *Table {
	data := make(map[string][]scalar.Scalar, len(t.names))
	for _, name := range t.names {
		data[name] = cloneValues(t.data[name])
	}
	return &Table{names: t.Columns(), data: data, rows: t.rows}
}

// requireColumns fails with the first name t does not have.
func (t *Table) requireColumns(names []string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return errors.ColumnNotFound(name)
		}
	}
	return nil
}

// Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

// Index returns the row position in its table.
func (r Row) Index() int { return r.i }

// Get returns the value of the named column, or Null when the column does
// not exist.
func (r Row) Get(name string) scalar.Scalar {
	values, ok := r.t.data[name]
	if !ok {
		return scalar.Null()
	}
	return values[r.i]
}

// Lookup returns the value of the named column and whether it exists.
func (r Row) Lookup(name string) (scalar.Scalar, bool) {
	values, ok := r.t.data[name]
	if !ok {
		return scalar.Null(), false
	}
	return values[r.i], true
}

// Map returns the row as a name-to-value map.
func (r Row) Map() map[string]scalar.Scalar {
	out := make(map[string]scalar.Scalar, len(r.t.names))
	for _, name := range r.t.names {
		out[name] = r.t.data[name][r.i]
	}
	return out
}
