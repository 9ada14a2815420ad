package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("TODO_SERVER", "")
	s, err := loadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultServer, s.Server)
	assert.Equal(t, defaultTimeout, s.Timeout)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("server = \"http://files:8080\"\ntimeout = \"3s\"\n"), 0o644))

	t.Setenv("TODO_SERVER", "")
	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "http://files:8080", s.Server)
	assert.Equal(t, 3*time.Second, s.Timeout)

	t.Setenv("TODO_SERVER", "http://env:9090")
	s, err = loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9090", s.Server)
	assert.Equal(t, 3*time.Second, s.Timeout)
}

func TestLoadSettings_BadFile(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("server = "), 0o644))
	_, err := loadSettings(broken)
	assert.Error(t, err)

	badTimeout := filepath.Join(dir, "timeout.toml")
	require.NoError(t, os.WriteFile(badTimeout, []byte("timeout = \"soon\"\n"), 0o644))
	_, err = loadSettings(badTimeout)
	assert.ErrorContains(t, err, "invalid timeout")
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("TODOCTL_CONFIG", "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", configPath())
}
