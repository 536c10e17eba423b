package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/scalar"
)

func joinFixtures(t *testing.T) (*Table, *Table) {
	a := mustTable(t, NewColumn("K", Ints(1, 2)), NewColumn("v", Texts("a", "b")))
	b := mustTable(t, NewColumn("K", Ints(1, 1, 3)), NewColumn("w", Texts("x", "y", "z")))
	return a, b
}

func TestJoinKinds(t *testing.T) {
	a, b := joinFixtures(t)

	tests := []struct {
		how  JoinKind
		want []map[string]interface{}
	}{
		{InnerJoin, []map[string]interface{}{
			{"K": int64(1), "v": "a", "w": "x"},
			{"K": int64(1), "v": "a", "w": "y"},
		}},
		{LeftJoin, []map[string]interface{}{
			{"K": int64(1), "v": "a", "w": "x"},
			{"K": int64(1), "v": "a", "w": "y"},
			{"K": int64(2), "v": "b", "w": nil},
		}},
		{RightJoin, []map[string]interface{}{
			{"K": int64(1), "v": "a", "w": "x"},
			{"K": int64(1), "v": "a", "w": "y"},
			{"K": int64(3), "v": nil, "w": "z"},
		}},
		{OuterJoin, []map[string]interface{}{
			{"K": int64(1), "v": "a", "w": "x"},
			{"K": int64(1), "v": "a", "w": "y"},
			{"K": int64(2), "v": "b", "w": nil},
			{"K": int64(3), "v": nil, "w": "z"},
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.how), func(t *testing.T) {
			out, err := a.Join(b, JoinOptions{On: "K", How: tt.how})
			require.NoError(t, err)
			assert.Equal(t, []string{"K", "v", "w"}, out.Columns())
			assert.Equal(t, tt.want, out.Records())
		})
	}
}

func TestJoinCrossProductAndCollision(t *testing.T) {
	left := mustTable(t, NewColumn("id", Ints(7, 7)), NewColumn("name", Texts("l1", "l2")))
	right := mustTable(t, NewColumn("id", Ints(7, 7)), NewColumn("name", Texts("r1", "r2")))

	out, err := left.Join(right, JoinOptions{On: "id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "name_right"}, out.Columns())
	assert.Equal(t, 4, out.NumRows())
	assert.Equal(t, Texts("l1", "l1", "l2", "l2"), column(t, out, "name"))
	assert.Equal(t, Texts("r1", "r2", "r1", "r2"), column(t, out, "name_right"))

	custom, err := left.Join(right, JoinOptions{On: "id", Suffix: "_b"})
	require.NoError(t, err)
	assert.True(t, custom.HasColumn("name_b"))
}

func TestJoinNullKeysMatch(t *testing.T) {
	left := mustTable(t, NewColumn("k", Values(nil, int64(1))), NewColumn("a", Ints(1, 2)))
	right := mustTable(t, NewColumn("k", Values(nil, 1.0)), NewColumn("b", Ints(3, 4)))
	out, err := left.Join(right, JoinOptions{On: "k"})
	require.NoError(t, err)
	assert.Equal(t, Ints(3, 4), column(t, out, "b"))
}

func TestJoinDistinctKeyNames(t *testing.T) {
	left := mustTable(t, NewColumn("id", Ints(1, 2)), NewColumn("v", Texts("a", "b")))
	right := mustTable(t, NewColumn("ref", Ints(2, 5)), NewColumn("w", Texts("x", "z")))

	out, err := left.Join(right, JoinOptions{LeftOn: "id", RightOn: "ref", How: OuterJoin})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "v", "ref", "w"}, out.Columns())
	assert.Equal(t, Values(int64(1), int64(2), int64(5)), column(t, out, "id"))
	assert.Equal(t, Values(nil, int64(2), int64(5)), column(t, out, "ref"))
	assert.Equal(t, Values("a", "b", nil), column(t, out, "v"))
}

func TestJoinErrors(t *testing.T) {
	a, b := joinFixtures(t)

	_, err := a.Join(b, JoinOptions{})
	assert.True(t, errors.IsValidation(err))
	_, err = a.Join(b, JoinOptions{On: "K", How: "cross"})
	assert.True(t, errors.IsValidation(err))
	_, err = a.Join(b, JoinOptions{On: "v"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	side, _ := errors.Detail(err, "side")
	assert.Equal(t, "right", side)
}

func TestJoinLeftRowCountBounds(t *testing.T) {
	a, b := joinFixtures(t)
	inner, err := a.Join(b, JoinOptions{On: "K", How: InnerJoin})
	require.NoError(t, err)
	left, err := a.Join(b, JoinOptions{On: "K", How: LeftJoin})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.NumRows())
	assert.Equal(t, 3, left.NumRows())
	assert.GreaterOrEqual(t, left.NumRows(), a.NumRows())
	assert.Equal(t, scalar.Null(), column(t, left, "w")[2])
}
