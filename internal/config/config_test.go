package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Output.CreateMissing)
	assert.Equal(t, 95, cfg.Output.JPEGQuality)
	assert.True(t, cfg.Scan.Recursive)
	assert.Equal(t, 0, cfg.Run.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[output]
directory = "/data/converted"
jpeg_quality = 80

[scan]
recursive = false

[run]
workers = 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/converted", cfg.Output.Directory)
	assert.Equal(t, 80, cfg.Output.JPEGQuality)
	assert.False(t, cfg.Scan.Recursive)
	assert.Equal(t, 4, cfg.Run.Workers)

	// Untouched keys keep their defaults.
	assert.True(t, cfg.Output.CreateMissing)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[output\nbroken")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.JPEGQuality = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Output.JPEGQuality = 101
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Run.Workers = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadValidatesFileValues(t *testing.T) {
	path := writeConfig(t, `
[output]
jpeg_quality = 250
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jpeg_quality")
}
