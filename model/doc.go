// Package model provides image model constants for the supported providers.
//
// Models know their provider, enabling automatic routing in the client:
//
//	tr := client.New(client.Config{Model: model.GPTImage1})
//
// The default models are [GeminiFlashImagePreview] for Google and
// [GPTImage1] for OpenAI. [Resolve] maps a provider and an optional
// identifier from configuration to a model:
//
//	m := model.Resolve(shades.ProviderGoogle, os.Getenv("SHADES_MODEL"))
package model
