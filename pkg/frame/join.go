package frame

import (
	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// JoinKind selects which unmatched rows a join keeps.
type JoinKind string

const (
	InnerJoin JoinKind = "inner"
	LeftJoin  JoinKind = "left"
	RightJoin JoinKind = "right"
	OuterJoin JoinKind = "outer"
)

// DefaultJoinSuffix is appended to right-side columns whose name collides
// with a left-side column.
const DefaultJoinSuffix = "_right"

// ParseJoinKind validates a join kind name.
func ParseJoinKind(name string) (JoinKind, error) {
	switch k := JoinKind(name); k {
	case InnerJoin, LeftJoin, RightJoin, OuterJoin:
		return k, nil
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "unsupported join kind: %s", name).
		WithDetail("how", name)
}

// JoinOptions describes an equi-join. Either On names a key column present
// in both tables, or LeftOn and RightOn name the key on each side.
type JoinOptions struct {
	On      string
	LeftOn  string
	RightOn string
	How     JoinKind // defaults to InnerJoin
	Suffix  string   // defaults to DefaultJoinSuffix
}

func (o JoinOptions) keys() (string, string, error) {
	left, right := o.LeftOn, o.RightOn
	if o.On != "" {
		if left == "" {
			left = o.On
		}
		if right == "" {
			right = o.On
		}
	}
	if left == "" || right == "" {
		return "", "", errors.New(errors.ErrorTypeValidation,
			"join requires On or both LeftOn and RightOn")
	}
	return left, right, nil
}

// joinColumn maps an output column to its source side.
type joinColumn struct {
	name  string
	src   []scalar.Scalar
	right bool
}

// Join equi-joins t with other. Rows are emitted in left order, each left row
// followed by all of its right matches in right order; for right and outer
// joins, unmatched right rows follow in right order. Null keys match each
// other.
func (t *Table) Join(other *Table, opts JoinOptions) (*Table, error) {
	leftOn, rightOn, err := opts.keys()
	if err != nil {
		return nil, err
	}
	how := opts.How
	if how == "" {
		how = InnerJoin
	}
	if _, err := ParseJoinKind(string(how)); err != nil {
		return nil, err
	}
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultJoinSuffix
	}
	leftKey, ok := t.data[leftOn]
	if !ok {
		return nil, errors.ColumnNotFound(leftOn).WithDetail("side", "left")
	}
	rightKey, ok := other.data[rightOn]
	if !ok {
		return nil, errors.ColumnNotFound(rightOn).WithDetail("side", "right")
	}

	cols := make([]joinColumn, 0, len(t.names)+len(other.names))
	for _, name := range t.names {
		cols = append(cols, joinColumn{name: name, src: t.data[name]})
	}
	sharedKey := leftOn == rightOn
	for _, name := range other.names {
		if sharedKey && name == rightOn {
			continue
		}
		out := name
		if t.HasColumn(name) {
			out = name + suffix
		}
		cols = append(cols, joinColumn{name: out, src: other.data[name], right: true})
	}

	index := newKeyIndex([][]scalar.Scalar{rightKey})
	matches := make([][]int, 0)
	for r := 0; r < other.rows; r++ {
		slot, found := index.find(r)
		if !found {
			slot = len(matches)
			matches = append(matches, nil)
			index.insert(r, slot)
		}
		matches[slot] = append(matches[slot], r)
	}

	var leftRows, rightRows []int // -1 marks the null side
	matched := make([]bool, other.rows)
	for l := 0; l < t.rows; l++ {
		var rows []int
		if slot, found := index.lookup(leftKey[l]); found {
			rows = matches[slot]
		}
		if len(rows) == 0 {
			if how == LeftJoin || how == OuterJoin {
				leftRows = append(leftRows, l)
				rightRows = append(rightRows, -1)
			}
			continue
		}
		for _, r := range rows {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, r)
			matched[r] = true
		}
	}
	if how == RightJoin || how == OuterJoin {
		for r := 0; r < other.rows; r++ {
			if !matched[r] {
				leftRows = append(leftRows, -1)
				rightRows = append(rightRows, r)
			}
		}
	}

	names := make([]string, len(cols))
	data := make(map[string][]scalar.Scalar, len(cols))
	for c, col := range cols {
		out := make([]scalar.Scalar, len(leftRows))
		for k := range leftRows {
			switch {
			case col.right && rightRows[k] >= 0:
				out[k] = col.src[rightRows[k]]
			case !col.right && leftRows[k] >= 0:
				out[k] = col.src[leftRows[k]]
			case !col.right && col.name == leftOn:
				out[k] = rightKey[rightRows[k]]
			default:
				out[k] = scalar.Null()
			}
		}
		names[c] = col.name
		if _, dup := data[col.name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"join output column %q is ambiguous", col.name).WithDetail("column", col.name)
		}
		data[col.name] = out
	}
	return build(names, data)
}
