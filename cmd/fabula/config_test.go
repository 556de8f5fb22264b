package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"store: redis\nredis_addr: redis:6400\nlog_level: debug\ntick_interval: 250ms\n",
	), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, "redis:6400", cfg.RedisAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "text", cfg.LogFormat, "unset keys keep defaults")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: libsql\n"), 0o644))

	t.Setenv("FABULA_STORE", "redis")
	t.Setenv("FABULA_TICK_INTERVAL", "1s")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, time.Second, cfg.TickInterval)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("FABULA_STORE", "cloud")
	_, err := loadConfig("")
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	t.Setenv("FABULA_TICK_INTERVAL", "soon")
	_, err := loadConfig("")
	assert.ErrorContains(t, err, "FABULA_TICK_INTERVAL")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}
