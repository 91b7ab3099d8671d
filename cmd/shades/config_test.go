package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadConfig reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHADES_PORT", "SHADES_LOG_LEVEL", "SHADES_READ_TIMEOUT", "SHADES_IDLE_TIMEOUT",
		"SHADES_PROXY_PATH", "SHADES_PROXY_URL", "SHADES_USER_AGENT", "SHADES_FETCH_TIMEOUT",
		"SHADES_ALLOWED_HOSTS", "SHADES_BLOCKED_HOSTS", "SHADES_PROVIDER", "SHADES_MODEL",
		"SHADES_API_BASE_URL", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/api/image-proxy", cfg.ProxyPath)
	assert.Equal(t, "google", cfg.Provider)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
	assert.Empty(t, cfg.ProxyURL)
	assert.Nil(t, cfg.AllowedHosts)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHADES_PORT", "9090")
	t.Setenv("SHADES_PROVIDER", "openai")
	t.Setenv("SHADES_MODEL", "gpt-image-1-mini")
	t.Setenv("SHADES_FETCH_TIMEOUT", "5s")
	t.Setenv("SHADES_IDLE_TIMEOUT", "not-a-duration")
	t.Setenv("SHADES_ALLOWED_HOSTS", "example.com, cdn.example.org,,")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-image-1-mini", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 120*time.Second, cfg.IdleTimeout, "invalid durations fall back to the default")
	assert.Equal(t, []string{"example.com", "cdn.example.org"}, cfg.AllowedHosts)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.Equal(t, "OPENAI_API_KEY", cfg.KeyEnv())
}

func TestGoogleKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "google-key", cfg.APIKey())

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.APIKey())
	assert.Equal(t, "GEMINI_API_KEY", cfg.KeyEnv())
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:         "8080",
			LogLevel:     "info",
			ProxyPath:    "/api/image-proxy",
			Provider:     "google",
			FetchTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port", func(c *Config) { c.Port = "http" }, "SHADES_PORT must be a number"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "SHADES_LOG_LEVEL"},
		{"proxy path", func(c *Config) { c.ProxyPath = "proxy" }, "SHADES_PROXY_PATH must start with /"},
		{"provider", func(c *Config) { c.Provider = "anthropic" }, "unknown provider: anthropic"},
		{"fetch timeout", func(c *Config) { c.FetchTimeout = 0 }, "SHADES_FETCH_TIMEOUT must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
