package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spetersoncode/shades"
	"github.com/spetersoncode/shades/internal/logging"
)

// Config holds the CLI configuration loaded from environment variables.
type Config struct {
	// Server
	Port        string
	LogLevel    string // debug, info, warn, error
	ReadTimeout time.Duration
	IdleTimeout time.Duration

	// Proxy
	ProxyPath    string
	ProxyURL     string // base URL of a running proxy; empty starts one in-process
	UserAgent    string
	FetchTimeout time.Duration
	AllowedHosts []string
	BlockedHosts []string

	// Provider selection
	Provider   string
	Model      string
	APIBaseURL string

	// API Keys
	GoogleKey string
	OpenAIKey string
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:         getEnvOrDefault("SHADES_PORT", "8080"),
		LogLevel:     getEnvOrDefault("SHADES_LOG_LEVEL", logging.LevelInfo),
		ReadTimeout:  getEnvDurationOrDefault("SHADES_READ_TIMEOUT", 10*time.Second),
		IdleTimeout:  getEnvDurationOrDefault("SHADES_IDLE_TIMEOUT", 120*time.Second),
		ProxyPath:    getEnvOrDefault("SHADES_PROXY_PATH", "/api/image-proxy"),
		ProxyURL:     os.Getenv("SHADES_PROXY_URL"),
		UserAgent:    os.Getenv("SHADES_USER_AGENT"),
		FetchTimeout: getEnvDurationOrDefault("SHADES_FETCH_TIMEOUT", 30*time.Second),
		AllowedHosts: getEnvListOrDefault("SHADES_ALLOWED_HOSTS", nil),
		BlockedHosts: getEnvListOrDefault("SHADES_BLOCKED_HOSTS", nil),
		Provider:     getEnvOrDefault("SHADES_PROVIDER", string(shades.ProviderGoogle)),
		Model:        os.Getenv("SHADES_MODEL"),
		APIBaseURL:   os.Getenv("SHADES_API_BASE_URL"),
		GoogleKey:    getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. API keys are not
// required here: serving the proxy needs none, and run checks the key for
// the selected provider itself.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("SHADES_PORT must be a number, got %q", c.Port)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("SHADES_LOG_LEVEL: %w", err)
	}

	if !strings.HasPrefix(c.ProxyPath, "/") {
		return fmt.Errorf("SHADES_PROXY_PATH must start with /, got %q", c.ProxyPath)
	}

	switch shades.Provider(c.Provider) {
	case shades.ProviderGoogle, shades.ProviderOpenAI:
	default:
		return fmt.Errorf("unknown provider: %s (must be google or openai)", c.Provider)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("SHADES_FETCH_TIMEOUT must be positive")
	}

	return nil
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() string {
	switch shades.Provider(c.Provider) {
	case shades.ProviderOpenAI:
		return c.OpenAIKey
	default:
		return c.GoogleKey
	}
}

// KeyEnv names the environment variable holding the selected provider's key.
func (c *Config) KeyEnv() string {
	if shades.Provider(c.Provider) == shades.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
