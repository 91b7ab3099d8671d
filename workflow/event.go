package workflow

import (
	"github.com/spetersoncode/shades/event"
)

// Event is an alias to the unified event type.
// The orchestrator emits these event.Type values:
//   - event.PhaseChanged
//   - event.OperationStarted, event.OperationFinished
//   - event.OperationRejected, event.OperationStale
type Event = event.Event
