package compression

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []byte(strings.Repeat("id,state,amount\n1,CA,10.5\n2,TX,3\n", 200))

func TestRoundTrip(t *testing.T) {
	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy, S2} {
		t.Run(string(alg), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, alg, Default)
			require.NoError(t, err)
			_, err = w.Write(sample)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if alg != None {
				assert.Less(t, buf.Len(), len(sample))
			}

			r, err := NewReader(&buf, alg)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, sample, got)
		})
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]Algorithm{
		"data.csv":       None,
		"data.csv.gz":    Gzip,
		"DATA.CSV.ZST":   Zstd,
		"x.lz4":          LZ4,
		"x.snappy":       Snappy,
		"x.s2":           S2,
		"archive.tar.bz": None,
	}
	for path, want := range tests {
		assert.Equal(t, want, Detect(path), path)
	}
	for _, alg := range []Algorithm{Gzip, Zstd, LZ4, Snappy, S2} {
		assert.Equal(t, alg, Detect("f"+Extension(alg)))
	}
}

func TestParseAlgorithm(t *testing.T) {
	a, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, a)
	a, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, a)
	_, err = ParseAlgorithm("brotli")
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := NewWriter(f, Gzip, Best)
	require.NoError(t, err)
	_, err = w.Write(sample)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	rc, err := OpenFile(path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.gz"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewReaderRejectsCorruptGzip(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not gzip")), Gzip)
	assert.Error(t, err)
}
