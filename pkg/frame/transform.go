package frame

import (
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// AddColumn appends a new column. It fails when the name already exists or
// when len(values) differs from the row count.
func (t *Table) AddColumn(name string, values []scalar.Scalar) (*Table, error) {
	if t.HasColumn(name) {
		return nil, errors.Newf(errors.ErrorTypeValidation, "column %q already exists", name).
			WithDetail("column", name)
	}
	if len(values) != t.rows {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"values length (%d) must match table length (%d)", len(values), t.rows).
			WithDetail("column", name)
	}
	out := t.Copy()
	out.names = append(out.names, name)
	out.data[name] = cloneValues(values)
	return out, nil
}

// RenameColumns renames the columns present in mapping and keeps the rest.
// Column order is preserved. Renaming onto an existing name fails.
func (t *Table) RenameColumns(mapping map[string]string) (*Table, error) {
	names := make([]string, len(t.names))
	data := make(map[string][]scalar.Scalar, len(t.names))
	for i, name := range t.names {
		target := name
		if renamed, ok := mapping[name]; ok {
			target = renamed
		}
		names[i] = target
		data[target] = cloneValues(t.data[name])
	}
	return build(names, data)
}

// FillNAColumn replaces Null and empty-text values in column with value.
func (t *Table) FillNAColumn(column string, value scalar.Scalar) (*Table, error) {
	return t.mapColumn(column, func(v scalar.Scalar) scalar.Scalar {
		if v.IsMissing() {
			return value
		}
		return v
	})
}

// ConvertColumnType converts every value of column to target where
// possible. Values that cannot be converted are kept unchanged; this is the
// lenient contract the query layer relies on for dirty columns.
func (t *Table) ConvertColumnType(column string, target scalar.Kind) (*Table, error) {
	return t.mapColumn(column, func(v scalar.Scalar) scalar.Scalar {
		out, _ := scalar.Convert(v, target)
		return out
	})
}

// ConvertColumnTypeStrict is ConvertColumnType that fails on the first value
// that cannot be converted.
func (t *Table) ConvertColumnTypeStrict(column string, target scalar.Kind) (*Table, error) {
	values, ok := t.data[column]
	if !ok {
		return nil, errors.ColumnNotFound(column)
	}
	converted := make([]scalar.Scalar, len(values))
	for i, v := range values {
		out, ok := scalar.Convert(v, target)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData,
				"cannot convert %s value %q to %s", v.Kind(), v.Format(), target).
				WithDetail("column", column).
				WithDetail("row", i)
		}
		converted[i] = out
	}
	return t.replaceColumn(column, converted), nil
}

// RoundColumn rounds numeric values of column to decimals places.
// Non-numeric values pass through.
func (t *Table) RoundColumn(column string, decimals int) (*Table, error) {
	return t.mapColumn(column, func(v scalar.Scalar) scalar.Scalar {
		return scalar.Round(v, decimals)
	})
}

// WithColumn returns a table whose column is derived row by row from fn.
// The column is replaced when it exists and appended otherwise.
func (t *Table) WithColumn(column string, fn func(Row) scalar.Scalar) *Table {
	values := make([]scalar.Scalar, t.rows)
	for i := range values {
		values[i] = fn(Row{t: t, i: i})
	}
	if t.HasColumn(column) {
		return t.replaceColumn(column, values)
	}
	out := t.Copy()
	out.names = append(out.names, column)
	out.data[column] = values
	return out
}

func (t *Table) mapColumn(column string, fn func(scalar.Scalar) scalar.Scalar) (*Table, error) {
	values, ok := t.data[column]
	if !ok {
		return nil, errors.ColumnNotFound(column)
	}
	mapped := make([]scalar.Scalar, len(values))
	for i, v := range values {
		mapped[i] = fn(v)
	}
	return t.replaceColumn(column, mapped), nil
}

// replaceColumn takes ownership of values.
func (t *Table) replaceColumn(column string, values []scalar.Scalar) *Table {
	data := make(map[string][]scalar.Scalar, len(t.names))
	for _, name := range t.names {
		if name == column {
			data[name] = values
			continue
		}
		data[name] = cloneValues(t.data[name])
	}
	return &Table{names: t.Columns(), data: data, rows: t.rows}
}
