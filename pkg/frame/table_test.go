package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

func mustTable(t *testing.T, columns ...Column) *Table {
	t.Helper()
	tbl, err := New(columns...)
	require.NoError(t, err)
	return tbl
}

func column(t *testing.T, tbl *Table, name string) []scalar.Scalar {
	t.Helper()
	values, err := tbl.Values(name)
	require.NoError(t, err)
	return values
}

func TestNewValidatesShape(t *testing.T) {
	_, err := New(NewColumn("a", Ints(1, 2)), NewColumn("b", Ints(1)))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = New(NewColumn("a", Ints(1)), NewColumn("a", Ints(2)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate column "a"`)

	tbl := mustTable(t, NewColumn("a", Ints(1, 2, 3)), NewColumn("b", Texts("x", "y", "z")))
	rows, cols := tbl.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestTableOwnsColumns(t *testing.T) {
	values := Ints(1, 2)
	tbl := mustTable(t, NewColumn("a", values))
	values[0] = scalar.Int(99)
	assert.Equal(t, scalar.Int(1), column(t, tbl, "a")[0])

	got := column(t, tbl, "a")
	got[1] = scalar.Int(42)
	assert.Equal(t, scalar.Int(2), column(t, tbl, "a")[1])
}

func TestSelect(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("a", Ints(1, 2)),
		NewColumn("b", Texts("x", "y")),
		NewColumn("c", Floats(0.5, 1.5)),
	)

	out, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, out.Columns())
	assert.Equal(t, Floats(0.5, 1.5), column(t, out, "c"))

	_, err = tbl.Select("a", "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	col, _ := errors.Detail(err, "column")
	assert.Equal(t, "missing", col)
}

func TestSelectComposes(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("a", Ints(1, 2)),
		NewColumn("b", Texts("x", "y")),
		NewColumn("c", Floats(0.5, 1.5)),
	)
	first, err := tbl.Select("a", "b", "c")
	require.NoError(t, err)
	twice, err := first.Select("c", "a")
	require.NoError(t, err)
	once, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, once.Records(), twice.Records())
	assert.Equal(t, once.Columns(), twice.Columns())
}

func TestDrop(t *testing.T) {
	tbl := mustTable(t, NewColumn("a", Ints(1)), NewColumn("b", Ints(2)))
	out := tbl.Drop("a", "nope")
	assert.Equal(t, []string{"b"}, out.Columns())
	assert.Equal(t, 1, out.NumRows())
}

func TestFilter(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("id", Ints(1, 2, 3, 4)),
		NewColumn("s", Texts("CA", "TX", "CA", "NY")),
	)
	out := tbl.Filter(func(r Row) bool { return r.Get("s") == scalar.Text("CA") })
	assert.Equal(t, Ints(1, 3), column(t, out, "id"))

	byValue, err := tbl.FilterByValue("s", scalar.Text("CA"))
	require.NoError(t, err)
	assert.Equal(t, out.Records(), byValue.Records())

	_, err = tbl.FilterByValue("x", scalar.Int(1))
	assert.True(t, errors.IsNotFound(err))
}

func TestFilterByValueNumericEquality(t *testing.T) {
	tbl := mustTable(t, NewColumn("v", Values(int64(1), 1.0, 2.5, nil, "1")))
	out, err := tbl.FilterByValue("v", scalar.Int(1))
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
}

func TestSortStable(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("k", Ints(2, 1, 2, 1, 2)),
		NewColumn("pos", Ints(0, 1, 2, 3, 4)),
	)

	asc, err := tbl.Sort([]string{"k"}, true)
	require.NoError(t, err)
	assert.Equal(t, Ints(1, 3, 0, 2, 4), column(t, asc, "pos"))

	desc, err := tbl.Sort([]string{"k"}, false)
	require.NoError(t, err)
	assert.Equal(t, Ints(0, 2, 4, 1, 3), column(t, desc, "pos"))
}

func TestSortMultiKeyMixedKinds(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("a", Values("x", nil, int64(2), 1.5, int64(2))),
		NewColumn("b", Ints(1, 1, 9, 1, 3)),
	)
	out, err := tbl.Sort([]string{"a", "b"}, true)
	require.NoError(t, err)
	assert.Equal(t, Values(nil, 1.5, int64(2), int64(2), "x"), column(t, out, "a"))
	assert.Equal(t, Ints(1, 1, 3, 9, 1), column(t, out, "b"))

	_, err = tbl.Sort(nil, true)
	assert.True(t, errors.IsValidation(err))
	_, err = tbl.Sort([]string{"zz"}, true)
	assert.True(t, errors.IsNotFound(err))
}

func TestHeadTail(t *testing.T) {
	tbl := mustTable(t, NewColumn("a", Ints(1, 2, 3, 4)))
	assert.Equal(t, Ints(1, 2), column(t, tbl.Head(2), "a"))
	assert.Equal(t, Ints(3, 4), column(t, tbl.Tail(2), "a"))
	assert.Equal(t, 4, tbl.Head(10).NumRows())
	assert.Equal(t, 0, tbl.Head(-1).NumRows())
	assert.Equal(t, 0, tbl.Tail(-5).NumRows())
	assert.Equal(t, 4, tbl.Tail(99).NumRows())
}

func TestRowAccess(t *testing.T) {
	tbl := mustTable(t, NewColumn("a", Ints(7)), NewColumn("b", Texts("x")))
	r := tbl.Row(0)
	assert.Equal(t, scalar.Int(7), r.Get("a"))
	assert.True(t, r.Get("zz").IsNull())
	_, ok := r.Lookup("zz")
	assert.False(t, ok)
	assert.Equal(t, map[string]scalar.Scalar{"a": scalar.Int(7), "b": scalar.Text("x")}, r.Map())
	assert.Panics(t, func() { tbl.Row(1) })

	v, err := tbl.At(0, "b")
	require.NoError(t, err)
	assert.Equal(t, scalar.Text("x"), v)
	_, err = tbl.At(3, "b")
	assert.True(t, errors.IsValidation(err))
}

func TestEmpty(t *testing.T) {
	tbl, err := Empty("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 2, tbl.NumColumns())
}
