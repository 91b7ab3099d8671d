package openai

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/shades"
)

var (
	sourceJPEG = []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}
	resultPNG  = []byte{0x89, 'P', 'N', 'G', 9, 9, 9}
)

// fakeImages records the multipart edit request and replies with body.
type fakeImages struct {
	status   int
	body     string
	path     string
	auth     string
	prompt   string
	model    string
	format   string
	filename string
	image    []byte
}

func (f *fakeImages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.path = r.URL.Path
	f.auth = r.Header.Get("Authorization")
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		f.prompt = r.FormValue("prompt")
		f.model = r.FormValue("model")
		f.format = r.FormValue("output_format")
		if file, hdr, err := r.FormFile("image"); err == nil {
			f.filename = hdr.Filename
			f.image, _ = io.ReadAll(file)
			file.Close()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, f *fakeImages, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	opts = append([]ClientOption{WithBaseURL(srv.URL + "/"), WithMaxRetries(0)}, opts...)
	return New("test-key", opts...)
}

func TestTransform(t *testing.T) {
	ctx := context.Background()
	req := shades.TransformRequest{
		Image:       sourceJPEG,
		MIMEType:    "image/jpeg",
		Instruction: shades.BaseInstruction,
		APIKey:      "test-key",
	}

	t.Run("edits the image", func(t *testing.T) {
		f := &fakeImages{body: `{"created":1,"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(resultPNG) + `"}]}`}
		c := newTestClient(t, f)

		art, err := c.Transform(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "image/png", art.MIMEType)
		data, err := art.Bytes()
		require.NoError(t, err)
		assert.Equal(t, resultPNG, data)

		assert.Equal(t, "/images/edits", f.path)
		assert.Equal(t, "Bearer test-key", f.auth)
		assert.Equal(t, shades.BaseInstruction, f.prompt)
		assert.Equal(t, "gpt-image-1", f.model)
		assert.Equal(t, "png", f.format)
		assert.Equal(t, "source.jpg", f.filename)
		assert.Equal(t, sourceJPEG, f.image)
	})

	t.Run("empty data", func(t *testing.T) {
		f := &fakeImages{body: `{"created":1,"data":[]}`}
		c := newTestClient(t, f)

		_, err := c.Transform(ctx, req)
		require.Error(t, err)
		assert.Equal(t, shades.KindNoImageInResponse, shades.KindOf(err))
		assert.Equal(t, "No image returned from OpenAI", shades.MessageOf(err))
	})

	t.Run("api error", func(t *testing.T) {
		f := &fakeImages{
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"Invalid image file.","type":"invalid_request_error","param":"image","code":"invalid_image"}}`,
		}
		c := newTestClient(t, f)

		_, err := c.Transform(ctx, req)
		require.Error(t, err)
		assert.True(t, shades.IsProcessing(err))
		assert.Equal(t, http.StatusBadRequest, shades.StatusCodeOf(err))
		assert.Equal(t, "Invalid image file.", shades.MessageOf(err))
	})

	t.Run("model option", func(t *testing.T) {
		c := New("k", WithModel(""))
		assert.Equal(t, DefaultImageModel, c.Model())
	})
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, wrapError(nil))

	err := wrapError(io.ErrUnexpectedEOF)
	assert.Equal(t, shades.KindTransport, shades.KindOf(err))
}
