package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("HISTORICAL_URL", "")
	t.Setenv("MIDAS_BASE_URL", "")

	dir := t.TempDir()
	yaml := "base_url: http://127.0.0.1:8080\ntimeout: 30s\nchunk_size: 1024\njournal_path: /tmp/journal\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1024, cfg.ChunkSize)
	assert.Equal(t, "/tmp/journal", cfg.JournalPath)
	assert.Same(t, cfg, Config)
}

func TestLoadConfigDefaultsFromEnv(t *testing.T) {
	t.Setenv("HISTORICAL_URL", "http://historical:9000")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://historical:9000", cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigRequiresBaseURL(t *testing.T) {
	t.Setenv("HISTORICAL_URL", "")
	t.Setenv("MIDAS_BASE_URL", "")

	_, err := LoadConfig(t.TempDir())
	assert.ErrorContains(t, err, "base_url")
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := AppConfig{BaseURL: "http://x", Timeout: 0, ChunkSize: 1}
	assert.Error(t, cfg.Validate())
}
