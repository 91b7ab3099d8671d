package openai

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/shades"
)

const providerName = "OpenAI"

// wrapError converts an OpenAI SDK error into a classified shades error.
// API errors keep the server message and status code; anything else is a
// transport failure.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return shades.NewTransportError("Failed to reach "+providerName, err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = "API request failed"
	}
	return shades.NewProcessingError(msg, apiErr.StatusCode, err)
}
