package model

import "github.com/spetersoncode/shades"

// ImageModel represents an image editing model from any provider.
type ImageModel struct {
	id       string
	provider shades.Provider
	pricing  ImagePricing
}

// String returns the API identifier for this model.
func (m ImageModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ImageModel) Provider() shades.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ImageModel) Pricing() ImagePricing { return m.pricing }

// IsZero reports whether m is the zero model.
func (m ImageModel) IsZero() bool { return m.id == "" }

// Google Gemini Image Models
// Model pricing last verified: December 14, 2025
var (
	GeminiFlashImagePreview = ImageModel{id: "gemini-2.5-flash-image-preview", provider: shades.ProviderGoogle, pricing: ImagePricing{PerImage: 0.039}}
	GeminiFlashImage        = ImageModel{id: "gemini-2.5-flash-image", provider: shades.ProviderGoogle, pricing: ImagePricing{PerImage: 0.039}}

	// DefaultGeminiModel is the default Google image model.
	DefaultGeminiModel = GeminiFlashImagePreview
)

// OpenAI Image Models
// Model pricing last verified: December 14, 2025
var (
	GPTImage1     = ImageModel{id: "gpt-image-1", provider: shades.ProviderOpenAI, pricing: ImagePricing{LowQuality: 0.011, MediumQuality: 0.042, HighQuality: 0.167}}
	GPTImage1Mini = ImageModel{id: "gpt-image-1-mini", provider: shades.ProviderOpenAI, pricing: ImagePricing{LowQuality: 0.005, MediumQuality: 0.013, HighQuality: 0.052}}

	// DefaultGPTImageModel is the default OpenAI image model.
	DefaultGPTImageModel = GPTImage1
)

var known = []ImageModel{
	GeminiFlashImagePreview,
	GeminiFlashImage,
	GPTImage1,
	GPTImage1Mini,
}

// Default returns the default model for a provider, or the zero model for
// an unknown provider.
func Default(p shades.Provider) ImageModel {
	switch p {
	case shades.ProviderGoogle:
		return DefaultGeminiModel
	case shades.ProviderOpenAI:
		return DefaultGPTImageModel
	default:
		return ImageModel{}
	}
}

// Lookup finds a known model by its API identifier.
func Lookup(id string) (ImageModel, bool) {
	for _, m := range known {
		if m.id == id {
			return m, true
		}
	}
	return ImageModel{}, false
}

// Custom builds a model for an identifier this package does not list, for
// example a newer snapshot. Pricing is unknown.
func Custom(id string, p shades.Provider) ImageModel {
	return ImageModel{id: id, provider: p}
}

// Resolve picks the model for a provider and an optional identifier
// override. Known identifiers keep their pricing; unknown ones become
// custom models of the given provider.
func Resolve(p shades.Provider, id string) ImageModel {
	if id == "" {
		return Default(p)
	}
	if m, ok := Lookup(id); ok {
		return m
	}
	return Custom(id, p)
}
