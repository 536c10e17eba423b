package frame

import (
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// AggFunc names an aggregation function.
type AggFunc string

const (
	Count AggFunc = "count"
	Sum   AggFunc = "sum"
	Mean  AggFunc = "mean"
	Min   AggFunc = "min"
	Max   AggFunc = "max"
)

// ParseAggFunc validates an aggregation function name.
func ParseAggFunc(name string) (AggFunc, error) {
	switch fn := AggFunc(name); fn {
	case Count, Sum, Mean, Min, Max:
		return fn, nil
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "unsupported aggregation function: %s", name).
		WithDetail("func", name)
}

// Aggregation applies Func to Column within each group.
type Aggregation struct {
	Column string
	Func   AggFunc
}

// Aggregate reduces a whole column with fn.
func (t *Table) Aggregate(column string, fn AggFunc) (scalar.Scalar, error) {
	if _, err := ParseAggFunc(string(fn)); err != nil {
		return scalar.Null(), err
	}
	values, ok := t.data[column]
	if !ok {
		return scalar.Null(), errors.ColumnNotFound(column)
	}
	out, err := reduce(values, nil, fn)
	if err != nil {
		return scalar.Null(), errors.Wrap(err, errors.ErrorTypeData, "aggregation failed").
			WithDetail("column", column)
	}
	return out, nil
}

// reduce aggregates values[rows] (or all values when rows is nil).
//
// count counts every row. Null and empty text are excluded from the others:
// sum of nothing is Integer 0, mean/min/max of nothing is Null. An Integer
// sum that overflows int64 is returned as Float.
func reduce(values []scalar.Scalar, rows []int, fn AggFunc) (scalar.Scalar, error) {
	n := len(values)
	if rows != nil {
		n = len(rows)
	}
	at := func(k int) scalar.Scalar {
		if rows != nil {
			return values[rows[k]]
		}
		return values[k]
	}

	switch fn {
	case Count:
		return scalar.Int(int64(n)), nil
	case Sum, Mean:
		var (
			isum    int64
			fsum    float64
			anyF    bool
			counted int
		)
		for k := 0; k < n; k++ {
			v := at(k)
			if v.IsMissing() {
				continue
			}
			switch v.Kind() {
			case scalar.KindInteger:
				i, _ := v.AsInt()
				next := isum + i
				if (i > 0 && next < isum) || (i < 0 && next > isum) {
					// int64 overflow: continue the sum in float
					fsum += float64(isum) + float64(i)
					isum, anyF = 0, true
					break
				}
				isum = next
			case scalar.KindFloat:
				f, _ := v.AsFloat()
				fsum += f
				anyF = true
			default:
				return scalar.Null(), errors.Newf(errors.ErrorTypeData,
					"cannot %s non-numeric value %q", fn, v.Format())
			}
			counted++
		}
		if fn == Mean {
			if counted == 0 {
				return scalar.Null(), nil
			}
			return scalar.Float((float64(isum) + fsum) / float64(counted)), nil
		}
		if anyF {
			return scalar.Float(float64(isum) + fsum), nil
		}
		return scalar.Int(isum), nil
	case Min, Max:
		best := scalar.Null()
		found := false
		for k := 0; k < n; k++ {
			v := at(k)
			if v.IsMissing() {
				continue
			}
			if !found {
				best, found = v, true
				continue
			}
			c := scalar.Compare(v, best)
			if (fn == Min && c < 0) || (fn == Max && c > 0) {
				best = v
			}
		}
		return best, nil
	}
	return scalar.Null(), errors.Newf(errors.ErrorTypeValidation, "unsupported aggregation function: %s", fn)
}
