package proxy

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the proxy to origin servers.
const DefaultUserAgent = "DealWithIt/1.0 (+https://github.com/kevintraver/deal-with-it)"

// DefaultCacheControl is sent when the origin gives no Cache-Control.
const DefaultCacheControl = "public, max-age=300"

// Option configures a Handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	client       *http.Client
	userAgent    string
	logger       *slog.Logger
	allowedHosts []string
	blockedHosts []string
	timeout      time.Duration
}

// WithHTTPClient sets the client used for outbound fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *handlerConfig) {
		cfg.client = c
	}
}

// WithUserAgent overrides the outbound User-Agent.
func WithUserAgent(ua string) Option {
	return func(cfg *handlerConfig) {
		cfg.userAgent = ua
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(cfg *handlerConfig) {
		cfg.logger = l
	}
}

// WithAllowedHosts restricts fetches to the given hosts and their subdomains.
func WithAllowedHosts(hosts ...string) Option {
	return func(cfg *handlerConfig) {
		cfg.allowedHosts = hosts
	}
}

// WithBlockedHosts refuses fetches to the given hosts and their subdomains.
func WithBlockedHosts(hosts ...string) Option {
	return func(cfg *handlerConfig) {
		cfg.blockedHosts = hosts
	}
}

// WithTimeout sets the timeout of the default outbound client.
// Default is 30 seconds. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(cfg *handlerConfig) {
		cfg.timeout = d
	}
}

func applyOptions(opts []Option) *handlerConfig {
	cfg := &handlerConfig{
		userAgent: DefaultUserAgent,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{
			Timeout: cfg.timeout,
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.userAgent == "" {
		cfg.userAgent = DefaultUserAgent
	}
	return cfg
}
