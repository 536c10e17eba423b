package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quarry/pkg/testutil"
)

func TestParallelMatchesSequential(t *testing.T) {
	path := testutil.CreateSalesFile(t, 400, 42)
	want, wantStats, err := ReadFile(context.Background(), path, testOptions(t))
	require.NoError(t, err)
	require.Equal(t, 400, want.NumRows())

	for _, workers := range []int{1, 2, 3, 7, 16} {
		for _, chunkSize := range []int64{0, 13, 512} {
			t.Run(fmt.Sprintf("workers=%d/chunk=%d", workers, chunkSize), func(t *testing.T) {
				opts := testOptions(t)
				opts.Workers = workers
				opts.ChunkSize = chunkSize
				got, stats, err := ReadFileParallel(context.Background(), path, opts)
				require.NoError(t, err)
				assert.Equal(t, wantStats.Rows, stats.Rows)
				assert.Equal(t, wantStats.Skipped, stats.Skipped)
				assert.Equal(t, want.Columns(), got.Columns())
				assert.Equal(t, want.Records(), got.Records())
			})
		}
	}
}

func TestParallelEveryBoundary(t *testing.T) {
	// one-byte chunks put a boundary at every offset, including exactly
	// after each newline
	content := "k,v\n1,a\n22,bb\n\n333,\"c,c\"\n4,d"
	path := testutil.WriteFile(t, "tiny.csv", content)

	opts := testOptions(t)
	opts.Workers = 4
	opts.ChunkSize = 1
	got, stats, err := ReadFileParallel(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, len(content)-len("k,v\n"), stats.Chunks)
	assert.Equal(t, []map[string]interface{}{
		{"k": int64(1), "v": "a"},
		{"k": int64(22), "v": "bb"},
		{"k": int64(333), "v": "c,c"},
		{"k": int64(4), "v": "d"},
	}, got.Records())
}

func TestParallelLongLines(t *testing.T) {
	long := strings.Repeat("x", readBufferSize+100)
	content := "id,text\n1," + long + "\n2,short\n3," + long + "\n"
	path := testutil.WriteFile(t, "long.csv", content)

	opts := testOptions(t)
	opts.Workers = 3
	got, stats, err := ReadFileParallel(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 3, stats.Chunks)
	v, err := got.At(2, "text")
	require.NoError(t, err)
	s, _ := v.AsText()
	assert.Len(t, s, len(long))

	seq, _, err := ReadFile(context.Background(), path, testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, seq.Records(), got.Records())
}

func TestPlanChunks(t *testing.T) {
	chunks := planChunks(10, 110, 4, 0)
	require.Len(t, chunks, 4)
	assert.Equal(t, int64(10), chunks[0].start)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].end, chunks[i].start)
	}
	assert.Equal(t, int64(110), chunks[3].end)

	assert.Len(t, planChunks(10, 13, 8, 0), 3)
	assert.Len(t, planChunks(0, 100, 1, 30), 4)
	assert.Empty(t, planChunks(10, 10, 4, 0))

	odd := planChunks(0, 10, 3, 0)
	assert.Equal(t, int64(10), odd[len(odd)-1].end)
}

func TestParallelCancelled(t *testing.T) {
	path := testutil.CreateSalesFile(t, 20, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := testOptions(t)
	opts.Workers = 2
	_, _, err := ReadFileParallel(ctx, path, opts)
	assert.ErrorIs(t, err, context.Canceled)
}
