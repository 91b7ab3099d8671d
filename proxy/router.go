package proxy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultPath is where the proxy is mounted.
const DefaultPath = "/api/image-proxy"

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	path string
}

// WithPath mounts the proxy at path instead of DefaultPath.
func WithPath(path string) RouterOption {
	return func(cfg *routerConfig) {
		if path != "" {
			cfg.path = path
		}
	}
}

// NewRouter mounts h on a chi router together with a health endpoint.
func NewRouter(h *Handler, opts ...RouterOption) http.Handler {
	cfg := &routerConfig{path: DefaultPath}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(allowAnyOrigin, middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/health", healthHandler)

	r.Get(cfg.path, h.ServeHTTP)
	r.Options(cfg.path, preflightHandler)

	return r
}

// allowAnyOrigin sets the CORS origin header on every response, including
// the router's own 404/405 replies and recovered panics.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

// preflightHandler answers CORS preflight requests.
func preflightHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
