// Package shades puts "Deal With It" sunglasses on the person in an image.
//
// The transformation itself is delegated to an external image generation
// service. This module provides the pieces around it:
//
//   - [github.com/spetersoncode/shades/workflow]: the orchestrator, a small
//     guarded state machine that acquires an image, sends it for processing
//     and keeps at most one external operation in flight
//   - [github.com/spetersoncode/shades/proxy]: a stateless relay that fetches
//     a remote URL, checks that it is an image and streams it back
//   - [github.com/spetersoncode/shades/client]: a [Transformer] backed by
//     Google Gemini or OpenAI
//   - [github.com/spetersoncode/shades/imaging]: decoding and transport
//     re-encoding of source images
//
// # Basic Usage
//
// Wire an orchestrator to a proxy and a transformer, then drive it:
//
//	tr := client.New(client.Config{Provider: shades.ProviderGoogle})
//	orch := workflow.New(proxy.NewClient(proxyURL), tr,
//	    workflow.WithKeySource(func() string { return os.Getenv("GEMINI_API_KEY") }),
//	)
//	defer orch.Close()
//
//	if err := orch.LoadLocalFile(ctx, data, "image/jpeg"); err != nil {
//	    log.Fatal(err) // invalid input only
//	}
//	orch.Process(ctx)
//
//	state := orch.Snapshot()
//	if state.Phase == workflow.PhaseError {
//	    fmt.Println(state.LastError.Message)
//	}
//
// # Errors
//
// Failures are classified with [Error] and an [ErrorKind]. Invalid input is
// returned to the caller; every other failure lands in the workflow state.
package shades
