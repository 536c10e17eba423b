package frame

import (
	"github.com/cespare/xxhash/v2"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

// GroupBy holds the groups of a table keyed by one or more columns. Groups
// are kept in first-seen order.
type GroupBy struct {
	t      *Table
	by     []string
	groups [][]int // row indices per group, in first-seen order
}

// GroupBy partitions t by the distinct combinations of the given columns.
func (t *Table) GroupBy(by ...string) (*GroupBy, error) {
	if len(by) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "groupby requires at least one column")
	}
	if err := t.requireColumns(by); err != nil {
		return nil, err
	}
	keys := make([][]scalar.Scalar, len(by))
	for k, name := range by {
		keys[k] = t.data[name]
	}
	idx := newKeyIndex(keys)
	groups := make([][]int, 0)
	for i := 0; i < t.rows; i++ {
		g, ok := idx.find(i)
		if !ok {
			g = len(groups)
			groups = append(groups, nil)
			idx.insert(i, g)
		}
		groups[g] = append(groups[g], i)
	}
	return &GroupBy{t: t, by: append([]string(nil), by...), groups: groups}, nil
}

// NumGroups returns the number of distinct keys.
func (g *GroupBy) NumGroups() int { return len(g.groups) }

// Agg computes one output row per group: the grouping columns followed by one
// column per aggregation, in the order given. Aggregations that target a
// grouping column are ignored.
func (g *GroupBy) Agg(aggs ...Aggregation) (*Table, error) {
	targets := make([]Aggregation, 0, len(aggs))
	seen := make(map[string]struct{}, len(aggs))
	for _, a := range aggs {
		if _, err := ParseAggFunc(string(a.Func)); err != nil {
			return nil, err
		}
		if !g.t.HasColumn(a.Column) {
			return nil, errors.ColumnNotFound(a.Column)
		}
		if g.isKey(a.Column) {
			continue
		}
		if _, dup := seen[a.Column]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q aggregated more than once", a.Column).WithDetail("column", a.Column)
		}
		seen[a.Column] = struct{}{}
		targets = append(targets, a)
	}

	names := g.keyNames()
	data := g.keyColumns()
	for _, a := range targets {
		values := g.t.data[a.Column]
		out := make([]scalar.Scalar, len(g.groups))
		for k, rows := range g.groups {
			v, err := reduce(values, rows, a.Func)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "aggregation failed").
					WithDetail("column", a.Column)
			}
			out[k] = v
		}
		names = append(names, a.Column)
		data[a.Column] = out
	}
	return build(names, data)
}

// AggAll applies fn to every non-grouping column.
func (g *GroupBy) AggAll(fn AggFunc) (*Table, error) {
	aggs := make([]Aggregation, 0, len(g.t.names))
	for _, name := range g.t.names {
		if !g.isKey(name) {
			aggs = append(aggs, Aggregation{Column: name, Func: fn})
		}
	}
	return g.Agg(aggs...)
}

// Count returns the group sizes in a column named "count".
func (g *GroupBy) Count() (*Table, error) {
	names := append(g.keyNames(), "count")
	data := g.keyColumns()
	counts := make([]scalar.Scalar, len(g.groups))
	for k, rows := range g.groups {
		counts[k] = scalar.Int(int64(len(rows)))
	}
	if _, clash := data["count"]; clash {
		return nil, errors.New(errors.ErrorTypeValidation, `grouping column "count" clashes with the count output`)
	}
	data["count"] = counts
	return build(names, data)
}

// Sum aggregates column with sum.
func (g *GroupBy) Sum(column string) (*Table, error) {
	return g.Agg(Aggregation{Column: column, Func: Sum})
}

// Mean aggregates column with mean.
func (g *GroupBy) Mean(column string) (*Table, error) {
	return g.Agg(Aggregation{Column: column, Func: Mean})
}

// Min aggregates column with min.
func (g *GroupBy) Min(column string) (*Table, error) {
	return g.Agg(Aggregation{Column: column, Func: Min})
}

// Max aggregates column with max.
func (g *GroupBy) Max(column string) (*Table, error) {
	return g.Agg(Aggregation{Column: column, Func: Max})
}

func (g *GroupBy) isKey(name string) bool {
	for _, b := range g.by {
		if b == name {
			return true
		}
	}
	return false
}

func (g *GroupBy) keyNames() []string { return append([]string(nil), g.by...) }

// keyColumns emits each group's key as first seen.
func (g *GroupBy) keyColumns() map[string][]scalar.Scalar {
	data := make(map[string][]scalar.Scalar, len(g.by)+1)
	for _, name := range g.by {
		src := g.t.data[name]
		out := make([]scalar.Scalar, len(g.groups))
		for k, rows := range g.groups {
			out[k] = src[rows[0]]
		}
		data[name] = out
	}
	return data
}

// keyIndex maps composite row keys to a slot. Rows are hashed with xxhash
// over the canonical key encoding; colliding candidates are confirmed with
// scalar.Equal.
type keyIndex struct {
	keys    [][]scalar.Scalar
	buckets map[uint64][]keySlot
	buf     []byte
}

type keySlot struct {
	row  int
	slot int
}

func newKeyIndex(keys [][]scalar.Scalar) *keyIndex {
	return &keyIndex{keys: keys, buckets: make(map[uint64][]keySlot)}
}

func (x *keyIndex) hash(row int) uint64 {
	x.buf = x.buf[:0]
	for _, col := range x.keys {
		x.buf = scalar.AppendKey(x.buf, col[row])
	}
	return xxhash.Sum64(x.buf)
}

func (x *keyIndex) find(row int) (int, bool) {
	for _, cand := range x.buckets[x.hash(row)] {
		if x.sameKey(cand.row, row) {
			return cand.slot, true
		}
	}
	return 0, false
}

// lookup finds the slot whose key equals vals, one value per key column.
func (x *keyIndex) lookup(vals ...scalar.Scalar) (int, bool) {
	x.buf = x.buf[:0]
	for _, v := range vals {
		x.buf = scalar.AppendKey(x.buf, v)
	}
	for _, cand := range x.buckets[xxhash.Sum64(x.buf)] {
		same := true
		for k, col := range x.keys {
			if !scalar.Equal(col[cand.row], vals[k]) {
				same = false
				break
			}
		}
		if same {
			return cand.slot, true
		}
	}
	return 0, false
}

func (x *keyIndex) insert(row, slot int) {
	h := x.hash(row)
	x.buckets[h] = append(x.buckets[h], keySlot{row: row, slot: slot})
}

func (x *keyIndex) sameKey(a, b int) bool {
	for _, col := range x.keys {
		if !scalar.Equal(col[a], col[b]) {
			return false
		}
	}
	return true
}
