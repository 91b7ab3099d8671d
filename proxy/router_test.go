package proxy

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	o := &origin{contentType: "image/png", body: pngBytes}
	upstream := httptest.NewServer(o)
	defer upstream.Close()

	r := NewRouter(NewHandler(WithLogger(quietLogger())))

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("proxy path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, DefaultPath+"?url="+url.QueryEscape(upstream.URL), nil)
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pngBytes, rec.Body.Bytes())
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, DefaultPath, nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	})

	t.Run("other methods", func(t *testing.T) {
		target := DefaultPath + "?url=" + url.QueryEscape("https://example.com/a.png")
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), method)
		}
	})

	t.Run("head is relayed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, DefaultPath+"?url="+url.QueryEscape(upstream.URL), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("custom path", func(t *testing.T) {
		custom := NewRouter(NewHandler(WithLogger(quietLogger())), WithPath("/fetch"))
		rec := httptest.NewRecorder()
		custom.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fetch?url=javascript:alert(1)", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
