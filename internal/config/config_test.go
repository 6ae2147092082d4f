package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/selector"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Format:    "text",
		CacheSize: selector.DefaultCacheSize,
	}, cfg)
}

func TestLoad_SearchDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "propsel.yaml", `
format: json
verbose: true
db: catalog.db
models_dir: models
cache_size: 16
`)

	cfg, err := load("", dir)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Format:    "json",
		Verbose:   true,
		DB:        "catalog.db",
		ModelsDir: "models",
		CacheSize: 16,
	}, cfg)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yaml", "db: other.db\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.DB)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "propsel.yaml", "format: text\n")

	t.Setenv("PROPSEL_FORMAT", "json")
	t.Setenv("PROPSEL_CACHE_SIZE", "8")

	cfg, err := load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.CacheSize)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		msg     string
	}{
		{"format", "format: xml\n", "format must be text or json"},
		{"cache size", "cache_size: -1\n", "cache_size must be non-negative"},
		{"malformed", "format: [\n", "failed to read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "propsel.yaml", tt.content)

			_, err := load("", dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
