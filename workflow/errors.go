package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPermitted indicates the trigger is not valid in the current phase.
	ErrNotPermitted = errors.New("workflow: transition not permitted")

	// ErrBusy indicates a fetch or process is already in flight.
	ErrBusy = errors.New("workflow: operation in flight")

	// ErrGuard indicates the phase allows the trigger but a guard failed.
	ErrGuard = errors.New("workflow: guard failed")

	// ErrStale indicates a completion for an attempt that was superseded.
	ErrStale = errors.New("workflow: stale attempt")
)

// TransitionError wraps a refused trigger with the phase it was refused in.
type TransitionError struct {
	Trigger TriggerKind
	Phase   Phase
	Reason  string
	Err     error
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s in %s (%s)", e.Err, e.Trigger, e.Phase, e.Reason)
	}
	return fmt.Sprintf("%v: %s in %s", e.Err, e.Trigger, e.Phase)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
