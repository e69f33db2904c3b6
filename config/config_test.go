package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://localhost:4567", cfg.ServiceURL)
	assert.Equal(t, 10, cfg.ProbeTimeoutSec)
	assert.Equal(t, 10, cfg.RequestTimeoutSec)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
service_url: http://127.0.0.1:8080
request_timeout_sec: 3
run:
  - todos/.*
skip:
  - .*observed.*
debug: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServiceURL)
	assert.Equal(t, 3, cfg.RequestTimeoutSec)
	assert.Equal(t, 10, cfg.ProbeTimeoutSec) // untouched keys keep defaults
	assert.Equal(t, []string{"todos/.*"}, cfg.Run)
	assert.Equal(t, []string{".*observed.*"}, cfg.Skip)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.DebugAll)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "service_url: [this is not\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.ServiceURL = "localhost:4567" // no scheme
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ServiceURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ProbeTimeoutSec = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RequestTimeoutSec = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeTempConfig(t, "request_timeout_sec: 0\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file")
}
