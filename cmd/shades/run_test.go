package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resultPNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeGemini answers generateContent with resultPNG and counts calls.
func fakeGemini(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	b64 := base64.StdEncoding.EncodeToString(resultPNG)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"`+b64+`"}}]}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// lockedBuffer is written by the event printer, the logger and the command.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin io.Reader, args ...string) result {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout bytes.Buffer
	var stderr lockedBuffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if stdin != nil {
		root.SetIn(stdin)
	}
	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func setupRun(t *testing.T) (*atomic.Int32, string) {
	t.Helper()
	clearEnv(t)
	api, hits := fakeGemini(t)
	t.Setenv("SHADES_API_BASE_URL", api.URL)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SHADES_LOG_LEVEL", "error")
	return hits, t.TempDir()
}

func TestRunFile(t *testing.T) {
	hits, dir := setupRun(t)
	src := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(src, testPNG(t), 0o644))
	out := filepath.Join(dir, "out.png")

	res := execute(t, nil, "run", "--file", src, "--out", out, "--prompt", "make them gold")
	require.NoError(t, res.err, res.stderr)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, resultPNG, got)
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, res.stdout, "saved")
	assert.Contains(t, res.stdout, "gemini-2.5-flash-image-preview")
	assert.Contains(t, res.stderr, "adding sunglasses")
}

func TestRunStdinDefaultOutput(t *testing.T) {
	_, dir := setupRun(t)
	t.Chdir(dir)

	res := execute(t, bytes.NewReader(testPNG(t)), "run", "--file", "-")
	require.NoError(t, res.err, res.stderr)

	got, err := os.ReadFile(filepath.Join(dir, "deal-with-it.png"))
	require.NoError(t, err)
	assert.Equal(t, resultPNG, got)
}

func TestRunURLWithRetry(t *testing.T) {
	hits, dir := setupRun(t)
	payload := testPNG(t)

	var originHits atomic.Int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if originHits.Add(1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	t.Cleanup(origin.Close)

	out := filepath.Join(dir, "cat.png")

	t.Run("fails without retries", func(t *testing.T) {
		res := execute(t, nil, "run", "--url", origin.URL+"/cat.png", "--out", out)
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "status 503")
		assert.NoFileExists(t, out)
		assert.Equal(t, int32(0), hits.Load())
	})

	originHits.Store(0)

	t.Run("recovers with a retry", func(t *testing.T) {
		res := execute(t, nil, "run", "--url", origin.URL+"/cat.png", "--out", out, "--retries", "1")
		require.NoError(t, res.err, res.stderr)
		assert.Contains(t, res.stderr, "retrying (1/1)")
		assert.Contains(t, res.stderr, "fetching image")
		assert.Equal(t, int32(2), originHits.Load())
		assert.Equal(t, int32(1), hits.Load())

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, resultPNG, got)
	})
}

func TestRunErrors(t *testing.T) {
	t.Run("needs exactly one input", func(t *testing.T) {
		setupRun(t)
		res := execute(t, nil, "run")
		assert.EqualError(t, res.err, "exactly one of --file or --url is required")

		res = execute(t, nil, "run", "--file", "a.png", "--url", "https://example.com/a.png")
		assert.EqualError(t, res.err, "exactly one of --file or --url is required")
	})

	t.Run("missing key", func(t *testing.T) {
		setupRun(t)
		t.Setenv("GEMINI_API_KEY", "")
		res := execute(t, nil, "run", "--file", "a.png")
		assert.EqualError(t, res.err, "GEMINI_API_KEY is required for google provider")
	})

	t.Run("non-image file", func(t *testing.T) {
		hits, dir := setupRun(t)
		src := filepath.Join(dir, "notes.txt")
		require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

		res := execute(t, nil, "run", "--file", src)
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "Unsupported file type")
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("unknown provider flag", func(t *testing.T) {
		setupRun(t)
		res := execute(t, nil, "run", "--file", "a.png", "--provider", "anthropic")
		require.Error(t, res.err)
		assert.True(t, strings.HasPrefix(res.err.Error(), "unknown provider"))
	})
}

func TestVersion(t *testing.T) {
	clearEnv(t)
	res := execute(t, nil, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "dev")
}

func TestServeProxyLogsFailure(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var logs lockedBuffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))

	t.Run("listener failure", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		require.NoError(t, ln.Close())

		serveProxy(&http.Server{Handler: http.NotFoundHandler()}, ln)
		assert.Contains(t, logs.String(), "in-process proxy failed")
	})

	t.Run("shutdown is quiet", func(t *testing.T) {
		before := logs.String()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		server := &http.Server{Handler: http.NotFoundHandler()}
		done := make(chan struct{})
		go func() {
			defer close(done)
			serveProxy(server, ln)
		}()
		require.NoError(t, server.Shutdown(context.Background()))
		<-done

		assert.Equal(t, before, logs.String())
	})
}
