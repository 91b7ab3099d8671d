package google

// ImageModel represents a Gemini model that can return images.
type ImageModel string

const (
	Gemini25FlashImagePreview ImageModel = "gemini-2.5-flash-image-preview"
	Gemini25FlashImage        ImageModel = "gemini-2.5-flash-image"

	// DefaultImageModel is the model used when none is configured.
	DefaultImageModel ImageModel = Gemini25FlashImagePreview
)

// String returns the model identifier string.
func (m ImageModel) String() string { return string(m) }
