// Package workflow provides the session orchestrator: a guarded state
// machine that acquires an image, sends it for transformation and presents
// the result or the failure.
//
// # Phases
//
// A session is always in exactly one [Phase]:
//
//	Idle ──load──▶ ImageLoaded ──process──▶ Processing ──▶ Done
//	  │                 ▲                       │
//	  └─url──▶ FetchingURL                      └──▶ Error ──retry──▶ ...
//
// FetchingURL and Processing are busy: an external call is in flight. At
// most one busy phase is active at a time; a second busy-entering request
// is a no-op, not an error and not queued.
//
// # Transitions
//
// [Next] is the pure transition function over [State] and [Trigger]. The
// [Orchestrator] is the only writer of its state and applies every trigger
// under one lock, so callers never observe a partial transition:
//
//	orch := workflow.New(fetcher, transformer, workflow.WithAPIKey(key))
//	if err := orch.SubmitURL(ctx, "https://example.com/cat.png"); err != nil {
//	    return err // invalid input only
//	}
//	orch.Process(ctx)
//
//	switch s := orch.Snapshot(); s.Phase {
//	case workflow.PhaseDone:
//	    data, mime, _ := orch.Output()
//	case workflow.PhaseError:
//	    if s.Retryable() {
//	        orch.Retry(ctx)
//	    }
//	}
//
// # Stale completions
//
// Reset does not cancel an in-flight call. Each busy operation carries an
// attempt id and a completion for any attempt but the current one is
// dropped, so a late reply can never overwrite a reset session.
//
// # Events
//
// With [WithEvents] the orchestrator reports phase changes and operation
// lifecycle on a channel. Sends never block; a full channel drops events.
package workflow
