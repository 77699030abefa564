package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotgrab/spotgrab/internal/download"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, download.DefaultTemplate, s.Format)
	assert.Equal(t, "spotgrab", s.DeviceName)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Empty(t, s.User)
	assert.Empty(t, s.Pass)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotgrab.yaml")
	content := "user: alice\nformat: \"music/{name}.{ext}\"\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "alice", s.User)
	assert.Equal(t, "music/{name}.{ext}", s.Format)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "spotgrab", s.DeviceName, "unset keys keep their defaults")
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("SPOTGRAB_DEVICE_NAME", "test-device")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "test-device", s.DeviceName)
}
