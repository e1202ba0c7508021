package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlbind/diagnostic"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(`version: 1
schema: schema.yaml
indent: "  "
prefixes:
  urn:example:shop: s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "schema.yaml", cfg.Schema)
	assert.Equal(t, "  ", cfg.Indent)
	assert.Equal(t, map[string]string{"urn:example:shop": "s"}, cfg.Prefixes)
	assert.Equal(t, diagnostic.ModeCollect, cfg.AnomalyMode())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [1"), 0o644))

	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)

	cfg := Default()
	cfg.Schema = "datasource.yaml"
	cfg.Mode = "fail-fast"
	cfg.Log.Format = "json"

	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, diagnostic.ModeFailFast, got.AnomalyMode())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"version", func(c *Config) { c.Version = 2 }, "unsupported config version 2"},
		{"mode", func(c *Config) { c.Mode = "strict" }, `invalid mode "strict"`},
		{"prefix", func(c *Config) { c.Prefixes = map[string]string{"urn:x": ""} }, "prefixes need a namespace and a prefix"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, `unknown log format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}
