package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:8000/api/", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 8, cfg.Backend.TicketConcurrency)
	assert.Equal(t, DriverFile, cfg.Session.Driver)
	assert.Equal(t, time.Minute, cfg.Charts.CacheTTL)
	assert.InDelta(t, 1.0, cfg.Assistant.RPS, 0.0001)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("TICKETDASH_SERVER_ADDR", ":9090")
	t.Setenv("TICKETDASH_SESSION_DRIVER", "REDIS")
	t.Setenv("TICKETDASH_REDIS_DB", "2")
	t.Setenv("API_KEY", "gemini-key")

	cfg, err := Load(LoadOptions{EnvFiles: []string{}})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, DriverRedis, cfg.Session.Driver)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "gemini-key", cfg.Assistant.APIKey)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TICKETDASH_EXPORT_DIR=/tmp/reports\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TICKETDASH_EXPORT_DIR") })

	yamlFile := filepath.Join(dir, "ticketdash.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("backend:\n  base_url: https://api.example.com/api/\nlog:\n  level: debug\n"), 0o600))

	cfg, err := Load(LoadOptions{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}, ConfigFile: yamlFile})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/reports", cfg.Export.Dir)
	assert.Equal(t, "https://api.example.com/api/", cfg.Backend.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("TICKETDASH_SESSION_DRIVER", "sqlite")
	_, err := Load(LoadOptions{EnvFiles: []string{}})
	require.ErrorIs(t, err, errUnknownDriver)
}
