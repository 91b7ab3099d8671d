// Package event provides the observable events emitted by the workflow
// orchestrator and the transformation client. Consumers such as a UI
// subscribe with a channel and render from the events they receive.
package event

import "time"

// Type identifies the kind of event.
type Type string

// Workflow events
const (
	// PhaseChanged fires after every applied transition that changed the phase.
	PhaseChanged Type = "phase_changed"

	// OperationStarted fires when a busy operation (fetch or process) begins.
	OperationStarted Type = "operation_started"

	// OperationFinished fires when a busy operation settles and its
	// completion has been applied.
	OperationFinished Type = "operation_finished"

	// OperationRejected fires when a trigger is refused by a guard
	// (for example a second process while one is in flight).
	OperationRejected Type = "operation_rejected"

	// OperationStale fires when a completion arrives for an attempt that
	// was superseded by Reset and is dropped.
	OperationStale Type = "operation_stale"
)

// Transformation request events
const (
	// RequestStart fires before a generation request begins.
	RequestStart Type = "request_start"

	// RequestComplete fires after a generation request succeeds.
	RequestComplete Type = "request_complete"

	// RequestError fires when a generation request fails.
	RequestError Type = "request_error"
)

// Event represents an observable occurrence in the workflow or client.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// From and To are the phases around a PhaseChanged event.
	From string
	To   string

	// Operation names the operation ("fetch", "process", "load", "retry",
	// "reset", "switch_mode").
	Operation string

	// Attempt identifies the busy operation the event belongs to.
	Attempt string

	// Provider and Model identify the generation backend for request events.
	Provider string
	Model    string

	// Duration is the elapsed time for finished operations and requests.
	Duration time.Duration

	// Error contains the failure, if any.
	Error error

	// Message contains additional context (e.g., the rejection reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// A nil channel is ignored.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
