package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Minute, cfg.Links.Lifetime)
	assert.Equal(t, time.Second, cfg.Links.TickInterval)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9090
  base_url: "https://links.example.com"
links:
  lifetime: 10m
store:
  type: redis
  redis:
    addr: "redis:6379"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://links.example.com", cfg.Server.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Links.Lifetime)
	assert.Equal(t, "redis", cfg.Store.Type)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	// untouched sections keep defaults
	assert.Equal(t, time.Second, cfg.Links.TickStep)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Links, cfg.Links)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("LINK_LIFETIME", "2m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Links.Lifetime)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }},
		{"unknown store", func(c *Config) { c.Store.Type = "sqlite" }},
		{"redis without addr", func(c *Config) { c.Store.Type = "redis"; c.Store.Redis.Addr = "" }},
		{"zero lifetime", func(c *Config) { c.Links.Lifetime = 0 }},
		{"step beyond lifetime", func(c *Config) { c.Links.TickStep = 10 * time.Minute }},
		{"zero sessions", func(c *Config) { c.Session.MaxSessions = 0 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
