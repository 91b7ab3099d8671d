// Package client provides the transformer used by the orchestrator.
//
// The Client wraps the provider implementations and provides:
//
//   - Model-centric routing: models know their provider
//   - Per-request API keys: the caller owns key storage
//   - Event emission: observable requests via channel
//
// # Basic Usage
//
//	c := client.New(client.Config{Provider: shades.ProviderGoogle})
//
//	art, err := c.Transform(ctx, shades.TransformRequest{
//	    Image:       jpegBytes,
//	    MIMEType:    "image/jpeg",
//	    Instruction: shades.BuildInstruction(""),
//	    APIKey:      os.Getenv("GEMINI_API_KEY"),
//	})
//
// # Providers
//
//	| Provider | Default model                  | Endpoint         |
//	|----------|--------------------------------|------------------|
//	| Google   | gemini-2.5-flash-image-preview | generateContent  |
//	| OpenAI   | gpt-image-1                    | images/edits     |
//
// # Retries
//
// The client never retries. A failed request is terminal for the attempt and
// the user retries explicitly through the workflow.
//
// # Events
//
//	events := event.NewChannel()
//	c := client.New(client.Config{Events: events})
//
//	go func() {
//	    for e := range events {
//	        fmt.Printf("[%s] %s took %v\n", e.Type, e.Model, e.Duration)
//	    }
//	}()
package client
