package frame

import "github.com/ajitpratap0/quarry/pkg/scalar"

// Column is a named sequence of values, one per row.
type Column struct {
	name   string
	values []scalar.Scalar
}

// NewColumn creates a column holding a copy of values.
func NewColumn(name string, values []scalar.Scalar) Column {
	return Column{name: name, values: cloneValues(values)}
}

// newColumnOwned wraps values without copying. Callers hand over ownership.
func newColumnOwned(name string, values []scalar.Scalar) Column {
	return Column{name: name, values: values}
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Len returns the number of values.
func (c Column) Len() int { return len(c.values) }

// At returns the value at row i.
func (c Column) At(i int) scalar.Scalar { return c.values[i] }

// Values returns a copy of the column values.
func (c Column) Values() []scalar.Scalar { return cloneValues(c.values) }

func cloneValues(values []scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	copy(out, values)
	return out
}

// Ints builds Integer scalars.
func Ints(values ...int64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	for i, v := range values {
		out[i] = scalar.Int(v)
	}
	return out
}

// Floats builds Float scalars.
func Floats(values ...float64) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	for i, v := range values {
		out[i] = scalar.Float(v)
	}
	return out
}

// Texts builds Text scalars.
func Texts(values ...string) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	for i, v := range values {
		out[i] = scalar.Text(v)
	}
	return out
}

// Values builds scalars from plain Go values (nil, integers, floats, strings).
func Values(values ...interface{}) []scalar.Scalar {
	out := make([]scalar.Scalar, len(values))
	for i, v := range values {
		out[i] = scalar.FromInterface(v)
	}
	return out
}
