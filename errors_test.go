package shades

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Error includes cause", func(t *testing.T) {
		err := NewTransportError("Fetch error", errors.New("connection refused"))
		assert.Equal(t, "Fetch error: connection refused", err.Error())
		assert.Equal(t, "Fetch error", err.Message())
	})

	t.Run("Error without cause", func(t *testing.T) {
		err := NewNoImageInResponseError("Gemini")
		assert.Equal(t, "No image returned from Gemini", err.Error())
	})

	t.Run("Unwrap returns underlying error", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewProcessingError("API request failed", 500, cause)
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, 500, err.StatusCode())
	})
}

func TestKindHelpers(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		kind         ErrorKind
		invalidInput bool
		processing   bool
		fetch        bool
	}{
		{"invalid input", NewInvalidInputError("bad", nil), KindInvalidInput, true, false, false},
		{"unsupported media", NewUnsupportedMediaError("text/plain"), KindUnsupportedMedia, true, false, false},
		{"decode", NewDecodeError(errors.New("eof")), KindDecode, false, false, false},
		{"remote fetch", NewRemoteFetchError("Upstream fetch failed", 502, nil), KindRemoteFetch, false, false, true},
		{"not an image", NewNotAnImageError("text/html"), KindNotAnImage, false, false, true},
		{"processing", NewProcessingError("quota", 429, nil), KindProcessing, false, true, false},
		{"no image", NewNoImageInResponseError("Gemini"), KindNoImageInResponse, false, true, false},
		{"transport", NewTransportError("Fetch error", nil), KindTransport, false, false, false},
		{"plain", errors.New("plain"), "", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.invalidInput, IsInvalidInput(tt.err))
			assert.Equal(t, tt.processing, IsProcessing(tt.err))
			assert.Equal(t, tt.fetch, IsFetch(tt.err))
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("fetching: %w", NewNotAnImageError("text/html"))
	assert.Equal(t, KindNotAnImage, KindOf(err))
	assert.Equal(t, 400, StatusCodeOf(err))
	assert.Equal(t, `URL is not an image (content type "text/html")`, MessageOf(err))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "", MessageOf(nil))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
	assert.Equal(t, "Failed to load image", MessageOf(NewDecodeError(errors.New("eof"))))
}
