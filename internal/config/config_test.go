package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "melhorenvio", cfg.QuoteProvider)
	assert.Equal(t, 5*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.True(t, cfg.SchemaBootstrap)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/stores")
	t.Setenv("QUOTE_TIMEOUT", "2s")
	t.Setenv("QUOTE_PROVIDER", "dummy")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost/stores", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, "dummy", cfg.QuoteProvider)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nmax_concurrency: 3\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxConcurrency)
}

func TestValidate(t *testing.T) {
	cfg := Config{UpstreamTimeout: time.Second, QuoteTimeout: time.Second, MaxConcurrency: 1}
	assert.Error(t, cfg.Validate())
	cfg.DatabaseURL = "postgres://x"
	assert.NoError(t, cfg.Validate())
	cfg.QuoteTimeout = 0
	assert.Error(t, cfg.Validate())
}
