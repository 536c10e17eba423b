package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quarry/pkg/errors"
	"github.com/ajitpratap0/quarry/pkg/frame"
	"github.com/ajitpratap0/quarry/pkg/testutil"
)

const salesCSV = "id,state,amount\n1,CA,10\n2,TX,5\n3,CA,2.5\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHead(t *testing.T) {
	path := testutil.WriteFile(t, "sales.csv", salesCSV)
	out, err := run(t, "head", path, "-n", "1", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,state,amount\n1,CA,10\n", out)

	out, err = run(t, "head", path, "-n", "1", "--tail", "-o", "csv", "--sequential")
	require.NoError(t, err)
	assert.Equal(t, "id,state,amount\n3,CA,2.5\n", out)
}

func TestGroupBy(t *testing.T) {
	path := testutil.WriteFile(t, "sales.csv", salesCSV)
	out, err := run(t, "groupby", path, "--by", "state", "--agg", "amount:sum", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `[{"state":"CA","amount":12.5},{"state":"TX","amount":5}]`+"\n", out)

	out, err = run(t, "groupby", path, "--by", "state", "--sort", "count", "-o", "csv", "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, "state,count\nTX,1\nCA,2\n", out)

	_, err = run(t, "groupby", path, "--by", "region")
	assert.True(t, errors.IsNotFound(err))

	_, err = run(t, "groupby", path, "--by", "state", "--agg", "amount:median")
	assert.True(t, errors.IsValidation(err))
}

func TestJoin(t *testing.T) {
	left := testutil.WriteFile(t, "sales.csv", salesCSV)
	right := testutil.WriteFile(t, "states.csv", "state,name\nCA,California\nTX,Texas\n")
	out, err := run(t, "join", left, right, "--on", "state", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,state,amount,name\n1,CA,10,California\n2,TX,5,Texas\n3,CA,2.5,California\n", out)

	_, err = run(t, "join", left, right, "--on", "state", "--how", "sideways")
	assert.True(t, errors.IsValidation(err))
}

func TestDescribe(t *testing.T) {
	path := testutil.WriteFile(t, "sales.csv", salesCSV)
	out, err := run(t, "describe", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"column":"amount"`)
	assert.NotContains(t, out, `"column":"state"`)
}

func TestExport(t *testing.T) {
	path := testutil.WriteFile(t, "sales.csv", salesCSV)
	dest := filepath.Join(t.TempDir(), "sales.json")
	_, err := run(t, "export", path, "--out", dest, "--select", "state,amount")
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `[{"state":"CA","amount":10},{"state":"TX","amount":5},{"state":"CA","amount":2.5}]`+"\n", string(data))
}

func TestDatasetsFromConfig(t *testing.T) {
	data := testutil.WriteFile(t, "sales.csv", salesCSV)
	semi := testutil.WriteFile(t, "semi.csv", "a;b\n1;2\n")
	cfg := testutil.WriteFile(t, "quarry.yaml", fmt.Sprintf(`
datasets:
  - name: sales
    path: %s
  - name: semi
    path: %s
    separator: ";"
`, data, semi))

	out, err := run(t, "--config", cfg, "datasets", "--load", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"sales"`)
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, `"rows":1`)

	out, err = run(t, "--config", cfg, "head", "semi", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", out)
}

func TestMissingSource(t *testing.T) {
	_, err := run(t, "head", filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, errors.IsNotFound(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Quarry v"+version)
}

func TestParseAggregations(t *testing.T) {
	aggs, err := parseAggregations([]string{"amount:sum", "a:b:max"})
	require.NoError(t, err)
	assert.Equal(t, []frame.Aggregation{
		{Column: "amount", Func: frame.Sum},
		{Column: "a:b", Func: frame.Max},
	}, aggs)

	for _, bad := range []string{"amount", ":sum", "amount:"} {
		_, err := parseAggregations([]string{bad})
		assert.True(t, errors.IsValidation(err), bad)
	}
}

func TestBench(t *testing.T) {
	testutil.IntegrationTest(t)
	path := testutil.CreateSalesFile(t, 500, 3)
	prof := filepath.Join(t.TempDir(), "mem.prof")
	out, err := run(t, "bench", path, "--iterations", "1", "--memprofile", prof, "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "mode,rows,chunks,best,rows_per_sec,mb_per_sec\n")
	assert.Contains(t, out, "sequential,500,1,")
	assert.Contains(t, out, "parallel,500,")
	assert.FileExists(t, prof)
}
