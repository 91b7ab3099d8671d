package openai

import (
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the OpenAI SDK to implement shades.Transformer.
type Client struct {
	client *openai.Client
	model  ImageModel
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultImageModel}
	for _, opt := range opts {
		opt(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.httpClient))
	}
	if cfg.maxRetries != nil {
		reqOpts = append(reqOpts, option.WithMaxRetries(*cfg.maxRetries))
	}

	client := openai.NewClient(reqOpts...)
	return &Client{
		client: &client,
		model:  cfg.model,
	}
}

type clientConfig struct {
	model      ImageModel
	baseURL    string
	httpClient *http.Client
	maxRetries *int
}

// ClientOption configures the OpenAI client.
type ClientOption func(*clientConfig)

// WithModel sets the model for requests.
func WithModel(model ImageModel) ClientOption {
	return func(c *clientConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithMaxRetries sets how often the SDK retries a failed request.
// Callers that own retry policy set this to 0.
func WithMaxRetries(n int) ClientOption {
	return func(c *clientConfig) {
		c.maxRetries = &n
	}
}

// Model returns the model used for requests.
func (c *Client) Model() ImageModel {
	return c.model
}
