package workflow

import (
	"errors"

	"github.com/spetersoncode/shades"
)

// State is the single workflow state of a session. It is only changed by
// Next; the orchestrator hands out copies.
type State struct {
	Phase     Phase
	InputMode InputMode

	// Source is the acquired image, set from a successful load until Reset
	// or a mode switch.
	Source *shades.Image

	// Result is the most recent successful transformation.
	Result *shades.Artifact

	// LastURL is the last URL submitted for fetch, kept for Retry.
	LastURL string

	// LastError is the failure that put the workflow into PhaseError.
	LastError *Failure

	// Attempt identifies the in-flight or most recent busy operation.
	// Completions carrying another attempt are stale.
	Attempt string
}

// Failure is the user-facing record of a failed attempt.
type Failure struct {
	Message   string
	Retryable bool
	Err       error
}

// Busy reports whether a fetch or process is in flight.
func (s State) Busy() bool {
	return s.Phase.Busy()
}

// Retryable reports whether Retry would re-drive an operation.
func (s State) Retryable() bool {
	return s.Phase == PhaseError && s.LastError != nil && s.LastError.Retryable
}

// Check verifies the state invariants and returns the first violation.
func (s State) Check() error {
	switch {
	case s.Result != nil && (s.Phase == PhaseIdle || s.Phase == PhaseImageLoaded || s.Phase == PhaseFetchingURL):
		return errors.New("result present in " + s.Phase.String())
	case s.Phase == PhaseProcessing && s.Source == nil:
		return errors.New("processing without a source image")
	case s.LastError != nil && s.LastError.Retryable && s.Source == nil && s.LastURL == "":
		return errors.New("retryable error with nothing to resume")
	case s.Phase == PhaseError && s.LastError == nil:
		return errors.New("error phase without an error")
	case s.Phase != PhaseError && s.LastError != nil:
		return errors.New("error recorded outside the error phase")
	case s.Phase == PhaseImageLoaded && s.Source == nil:
		return errors.New("image loaded without a source image")
	case s.Phase == PhaseDone && s.Result == nil:
		return errors.New("done without a result")
	}
	return nil
}

func newFailure(err error, retryable bool) *Failure {
	return &Failure{Message: shades.MessageOf(err), Retryable: retryable, Err: err}
}
