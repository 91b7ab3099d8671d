package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/spetersoncode/shades"
)

// Client calls a fetch-validation proxy on behalf of the orchestrator.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientHTTPClient sets the HTTP client used to reach the proxy.
func WithClientHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithClientLogger sets the client logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a client for the proxy at endpoint, the full URL of the
// proxy path (e.g. "http://localhost:8080/api/image-proxy").
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves rawURL through the proxy and returns the image bytes and
// content type.
//
// A proxy rejection of a non-image payload yields a not-an-image error;
// any other non-2xx reply yields a remote fetch error carrying the proxy
// status; a network failure yields a transport error.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, "", shades.NewTransportError("Invalid proxy endpoint", err)
	}
	q := u.Query()
	q.Set("url", rawURL)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", shades.NewTransportError(msgFetchError, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", shades.NewTransportError(msgFetchError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", shades.NewTransportError(msgFetchError, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", c.replyError(resp.StatusCode, body)
	}
	if !shades.IsImageMIME(contentType) {
		return nil, "", shades.NewNotAnImageError(contentType)
	}

	c.logger.Debug("fetched image via proxy", "content_type", contentType, "bytes", len(body))
	return body, contentType, nil
}

// replyError maps a non-2xx proxy reply to a classified error.
func (c *Client) replyError(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		c.logger.Debug("proxy error body is not json", "status", status, "error", err)
	}

	if status == http.StatusBadRequest && eb.ContentType != "" {
		return shades.NewNotAnImageError(eb.ContentType)
	}

	msg := eb.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	if eb.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, eb.Status)
	}
	return shades.NewRemoteFetchError("Failed to fetch image: "+msg, status, nil)
}
