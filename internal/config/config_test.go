package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotNil(t, cfg.Filters)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().LogLevel, cfg.LogLevel)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
workers: 2
log_level: debug
filters:
  gaussian_sigma: 1.5
  grayscale: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1.5, cfg.Filters["gaussian_sigma"])
	assert.Equal(t, true, cfg.Filters["grayscale"])
	assert.Equal(t, Default().OutputDir, cfg.OutputDir, "unset fields keep defaults")
}

func TestLoadRejectsBadWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFilterParamsCopies(t *testing.T) {
	cfg := Default()
	cfg.Filters["grayscale"] = true

	params := cfg.FilterParams()
	params["grayscale"] = false

	assert.Equal(t, true, cfg.Filters["grayscale"])
}
