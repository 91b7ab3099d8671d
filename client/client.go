package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spetersoncode/shades"
	"github.com/spetersoncode/shades/event"
	"github.com/spetersoncode/shades/internal/provider/google"
	"github.com/spetersoncode/shades/internal/provider/openai"
	"github.com/spetersoncode/shades/model"
)

// Config holds configuration for creating a client.
type Config struct {
	// Provider selects the backend. If empty, the provider of Model is used,
	// and Google when both are empty.
	Provider shades.Provider

	// Model overrides the provider's default image model.
	Model model.ImageModel

	// BaseURL overrides the provider API endpoint (tests, gateways).
	BaseURL string

	// HTTPClient is passed to the provider SDK.
	HTTPClient *http.Client

	// Events is an optional channel for receiving request events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- event.Event
}

// ErrUnsupportedProvider is returned for a provider without an image backend.
type ErrUnsupportedProvider struct {
	Provider shades.Provider
}

func (e *ErrUnsupportedProvider) Error() string {
	return fmt.Sprintf("unsupported provider: %s (must be google or openai)", e.Provider)
}

// ErrMissingAPIKey is returned when a request carries no API key.
type ErrMissingAPIKey struct {
	Provider shades.Provider
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("no API key provided for %s (required by model %q)", e.Provider, e.Model)
	}
	return fmt.Sprintf("no API key provided for %s", e.Provider)
}

// maxCachedClients bounds the per-key provider clients kept by a Client.
const maxCachedClients = 8

// Client routes transformation requests to the configured provider.
// The API key travels with each request; a provider client is built
// lazily per key and reused. Clients are cached under a hash of the key,
// oldest first out once maxCachedClients is reached.
type Client struct {
	provider   shades.Provider
	model      model.ImageModel
	baseURL    string
	httpClient *http.Client
	events     chan<- event.Event

	mu      sync.RWMutex
	clients map[string]shades.Transformer
	order   []string
}

// New creates a client with the given configuration.
func New(cfg Config) *Client {
	provider := cfg.Provider
	if provider == "" {
		provider = cfg.Model.Provider()
	}
	if provider == "" {
		provider = shades.ProviderGoogle
	}
	m := cfg.Model
	if m.IsZero() {
		m = model.Default(provider)
	}
	return &Client{
		provider:   provider,
		model:      m,
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		events:     cfg.Events,
		clients:    make(map[string]shades.Transformer),
	}
}

// Provider returns the provider requests are routed to.
func (c *Client) Provider() shades.Provider { return c.provider }

// Model returns the model requests use.
func (c *Client) Model() model.ImageModel { return c.model }

// Validate reports configuration that can never serve a request.
func (c *Client) Validate() error {
	switch c.provider {
	case shades.ProviderGoogle, shades.ProviderOpenAI:
		return nil
	default:
		return &ErrUnsupportedProvider{Provider: c.provider}
	}
}

// Transform sends one request to the provider. There are no retries: a
// failure is returned as is for the caller to surface.
func (c *Client) Transform(ctx context.Context, req shades.TransformRequest) (*shades.Artifact, error) {
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		return nil, shades.NewInvalidInputError("Please enter your API key",
			&ErrMissingAPIKey{Provider: c.provider, Model: c.model.String()})
	}

	tr, err := c.transformer(ctx, key)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.emit(event.Event{Type: event.RequestStart})

	art, err := tr.Transform(ctx, req)
	if err != nil {
		c.emit(event.Event{Type: event.RequestError, Duration: time.Since(start), Error: err})
		return nil, err
	}

	c.emit(event.Event{Type: event.RequestComplete, Duration: time.Since(start)})
	return art, nil
}

// transformer returns the provider client for key, initializing it if needed.
func (c *Client) transformer(ctx context.Context, key string) (shades.Transformer, error) {
	id := cacheKey(key)

	c.mu.RLock()
	if tr, ok := c.clients[id]; ok {
		defer c.mu.RUnlock()
		return tr, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if tr, ok := c.clients[id]; ok {
		return tr, nil
	}

	var tr shades.Transformer
	switch c.provider {
	case shades.ProviderGoogle:
		gc, err := google.New(ctx, key,
			google.WithModel(google.ImageModel(c.model.String())),
			google.WithBaseURL(c.baseURL),
			google.WithHTTPClient(c.httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google client: %w", err)
		}
		tr = gc
	case shades.ProviderOpenAI:
		opts := []openai.ClientOption{
			openai.WithModel(openai.ImageModel(c.model.String())),
			openai.WithBaseURL(c.baseURL),
			openai.WithMaxRetries(0),
		}
		if c.httpClient != nil {
			opts = append(opts, openai.WithHTTPClient(c.httpClient))
		}
		tr = openai.New(key, opts...)
	default:
		return nil, &ErrUnsupportedProvider{Provider: c.provider}
	}

	if len(c.order) >= maxCachedClients {
		delete(c.clients, c.order[0])
		c.order = c.order[1:]
	}
	c.clients[id] = tr
	c.order = append(c.order, id)
	return tr, nil
}

// cacheKey keeps raw API keys out of the client cache.
func cacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (c *Client) emit(e event.Event) {
	e.Operation = "transform"
	e.Provider = c.provider.String()
	e.Model = c.model.String()
	event.Emit(c.events, e)
}

var _ shades.Transformer = (*Client)(nil)
