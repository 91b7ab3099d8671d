package shades

// Provider identifies an image generation provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderGoogle Provider = "google"
	ProviderOpenAI Provider = "openai"
)
