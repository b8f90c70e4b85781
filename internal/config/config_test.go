package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GOTAKEOFF_LOG_LEVEL", "GOTAKEOFF_LOG_FORMAT", "GOTAKEOFF_SETTINGS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Empty(t, cfg.Settings)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOTAKEOFF_LOG_LEVEL", "debug")
	t.Setenv("GOTAKEOFF_LOG_FORMAT", "json")
	t.Setenv("GOTAKEOFF_SETTINGS", "/etc/gotakeoff/settings.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/etc/gotakeoff/settings.yaml", cfg.Settings)
}
