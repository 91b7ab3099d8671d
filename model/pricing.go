package model

// ImagePricing contains image editing pricing (USD).
// Different providers use different pricing models.
type ImagePricing struct {
	// PerImage is a flat per-image price (Google Gemini).
	PerImage float64
	// LowQuality is the price for low quality images (OpenAI).
	LowQuality float64
	// MediumQuality is the price for medium quality images (OpenAI).
	MediumQuality float64
	// HighQuality is the price for high quality images (OpenAI).
	HighQuality float64
}

// HasQualityTiers returns true if the model has quality-based pricing tiers.
func (p ImagePricing) HasQualityTiers() bool {
	return p.LowQuality > 0 || p.MediumQuality > 0 || p.HighQuality > 0
}

// HasFlatPricing returns true if the model uses flat per-image pricing.
func (p ImagePricing) HasFlatPricing() bool {
	return p.PerImage > 0
}

// Estimate returns the price of one image. Quality-tiered models are
// priced at their medium tier, the provider default for edits.
func (p ImagePricing) Estimate() float64 {
	if p.HasFlatPricing() {
		return p.PerImage
	}
	return p.MediumQuality
}
