package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/quarry/pkg/errors"
)

func TestNewEngineConfigDefaults(t *testing.T) {
	cfg := NewEngineConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ',', cfg.Ingest.SeparatorRune())
	assert.Equal(t, "utf-8", cfg.Ingest.Encoding)
	assert.Positive(t, cfg.Ingest.Workers)
	assert.True(t, cfg.Ingest.InferTypes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"long separator", func(c *EngineConfig) { c.Ingest.Separator = "ab" }},
		{"quote separator", func(c *EngineConfig) { c.Ingest.Separator = `"` }},
		{"negative workers", func(c *EngineConfig) { c.Ingest.Workers = -1 }},
		{"negative chunk size", func(c *EngineConfig) { c.Ingest.ChunkSize = -1 }},
		{"negative max rows", func(c *EngineConfig) { c.Ingest.MaxRows = -5 }},
		{"bad level", func(c *EngineConfig) { c.Logging.Level = "loud" }},
		{"bad sample rate", func(c *EngineConfig) { c.Observability.TracingSampleRate = 2 }},
		{"unnamed dataset", func(c *EngineConfig) { c.Datasets = []DatasetConfig{{Path: "a.csv"}} }},
		{"dataset without path", func(c *EngineConfig) { c.Datasets = []DatasetConfig{{Name: "a"}} }},
		{"duplicate dataset", func(c *EngineConfig) {
			c.Datasets = []DatasetConfig{{Name: "a", Path: "a.csv"}, {Name: "a", Path: "b.csv"}}
		}},
		{"dataset separator", func(c *EngineConfig) {
			c.Datasets = []DatasetConfig{{Name: "a", Path: "a.csv", Separator: "\n"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewEngineConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestTabSeparator(t *testing.T) {
	cfg := NewEngineConfig()
	cfg.Ingest.Separator = `\t`
	require.NoError(t, cfg.Validate())
	assert.Equal(t, '\t', cfg.Ingest.SeparatorRune())
}

func TestDatasetResolve(t *testing.T) {
	defaults := NewEngineConfig().Ingest
	sep, enc, infer := DatasetConfig{Name: "a", Path: "a.csv"}.Resolve(defaults)
	assert.Equal(t, ',', sep)
	assert.Equal(t, "utf-8", enc)
	assert.True(t, infer)

	off := false
	sep, enc, infer = DatasetConfig{Separator: ";", Encoding: "latin1", InferTypes: &off}.Resolve(defaults)
	assert.Equal(t, ';', sep)
	assert.Equal(t, "latin1", enc)
	assert.False(t, infer)
}

func TestLoadEngineConfig(t *testing.T) {
	t.Setenv("QUARRY_TEST_DATA", "/data")
	path := filepath.Join(t.TempDir(), "quarry.yaml")
	content := `
ingest:
  separator: ";"
  workers: 2
datasets:
  - name: sales
    path: ${QUARRY_TEST_DATA}/sales.csv
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadEngineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ';', cfg.Ingest.SeparatorRune())
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.Equal(t, "utf-8", cfg.Ingest.Encoding, "unset fields keep defaults")
	require.Len(t, cfg.Datasets, 1)
	assert.Equal(t, "/data/sales.csv", cfg.Datasets[0].Path)
	assert.Equal(t, "debug", cfg.Logging.LoggerConfig().Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsNotFound(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ingest: [unclosed"), 0o600))
	_, err = LoadEngineConfig(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	require.NoError(t, os.WriteFile(path, []byte("ingest:\n  workers: -3\n"), 0o600))
	_, err = LoadEngineConfig(path)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := NewEngineConfig()
	cfg.Datasets = []DatasetConfig{{Name: "sales", Path: "sales.csv", Separator: "|"}}
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadEngineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
