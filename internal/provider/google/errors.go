package google

import (
	"errors"

	"github.com/spetersoncode/shades"
	"google.golang.org/genai"
)

const providerName = "Gemini"

// wrapError converts a GenAI error into a classified shades error.
// API errors keep the server message and status code; anything else is a
// transport failure.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return shades.NewTransportError("Failed to reach "+providerName, err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = "API request failed"
	}
	return shades.NewProcessingError(msg, apiErr.Code, err)
}
