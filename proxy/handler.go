// Package proxy implements the fetch-validation proxy: a stateless relay
// that fetches a user-supplied URL, checks that the reply is an image and
// streams it back with permissive CORS headers.
package proxy

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/spetersoncode/shades"
)

// Error bodies returned by the proxy.
const (
	msgInvalidURL     = "Invalid or missing url parameter"
	msgUpstreamFailed = "Upstream fetch failed"
	msgNotAnImage     = "URL is not an image"
	msgFetchError     = "Fetch error"
)

// errorBody is the JSON shape of every proxy error.
type errorBody struct {
	Error       string `json:"error"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Handler relays GET ?url=<target> to the target and back. It keeps no
// state between requests and never retries.
type Handler struct {
	cfg *handlerConfig
}

// NewHandler creates a proxy handler.
func NewHandler(opts ...Option) *Handler {
	return &Handler{cfg: applyOptions(opts)}
}

// ServeHTTP fetches the url query parameter and relays the image.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	w.Header().Set("Access-Control-Allow-Origin", "*")

	log := h.cfg.logger.With("request_id", middleware.GetReqID(r.Context()))

	target, err := h.parseTarget(r.URL.Query().Get("url"))
	if err != nil {
		log.Warn("rejected url", "error", err)
		writeError(w, http.StatusBadRequest, errorBody{Error: msgInvalidURL})
		return
	}
	log = log.With("target", target.Redacted())

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		log.Warn("rejected url", "error", err)
		writeError(w, http.StatusBadRequest, errorBody{Error: msgInvalidURL})
		return
	}
	req.Header.Set("User-Agent", h.cfg.userAgent)

	resp, err := h.cfg.client.Do(req)
	if err != nil {
		log.Error("fetch failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		writeError(w, http.StatusInternalServerError, errorBody{Error: msgFetchError})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Info("upstream failed", "status", resp.StatusCode)
		writeError(w, http.StatusBadGateway, errorBody{Error: msgUpstreamFailed, Status: resp.StatusCode})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		log.Info("upstream is not an image", "content_type", contentType)
		writeError(w, http.StatusBadRequest, errorBody{Error: msgNotAnImage, ContentType: contentType})
		return
	}

	w.Header().Set("Content-Type", contentType)
	if resp.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(resp.ContentLength, 10))
	} else if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}
	cacheControl := resp.Header.Get("Cache-Control")
	if cacheControl == "" {
		cacheControl = DefaultCacheControl
	}
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		log.Error("relay interrupted", "error", err, "bytes", n)
		return
	}
	log.Info("relayed image",
		"content_type", contentType,
		"bytes", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// parseTarget validates the target URL with shades.ParseImageURL and then
// applies the host filters.
func (h *Handler) parseTarget(raw string) (*url.URL, error) {
	u, err := shades.ParseImageURL(raw)
	if err != nil {
		return nil, err
	}
	if err := h.cfg.checkHost(u.Hostname()); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *handlerConfig) checkHost(host string) error {
	host = strings.ToLower(host)

	for _, blocked := range c.blockedHosts {
		if matchHost(host, blocked) {
			return fmt.Errorf("host %q is blocked", host)
		}
	}

	if len(c.allowedHosts) > 0 {
		for _, a := range c.allowedHosts {
			if matchHost(host, a) {
				return nil
			}
		}
		return fmt.Errorf("host %q is not in allowed list", host)
	}

	return nil
}

func matchHost(host, pattern string) bool {
	pattern = strings.ToLower(pattern)
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to write error body", "error", err)
	}
}
