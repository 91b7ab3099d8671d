package openai

// ImageModel represents an OpenAI model with image editing support.
type ImageModel string

const (
	GPTImage1 ImageModel = "gpt-image-1"

	// DefaultImageModel is the model used when none is configured.
	DefaultImageModel ImageModel = GPTImage1
)

// String returns the model identifier string.
func (m ImageModel) String() string { return string(m) }
