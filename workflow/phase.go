package workflow

// Phase is the orchestrator's current discrete workflow state.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseImageLoaded Phase = "image_loaded"
	PhaseFetchingURL Phase = "fetching_url"
	PhaseProcessing  Phase = "processing"
	PhaseDone        Phase = "done"
	PhaseError       Phase = "error"
)

// String returns the phase identifier.
func (p Phase) String() string { return string(p) }

// Busy reports whether an external operation is in flight in this phase.
func (p Phase) Busy() bool {
	return p == PhaseFetchingURL || p == PhaseProcessing
}

// InputMode selects the active acquisition path.
type InputMode string

const (
	InputFile InputMode = "file"
	InputURL  InputMode = "url"
)

// String returns the mode identifier.
func (m InputMode) String() string { return string(m) }

// Valid reports whether m is a known mode.
func (m InputMode) Valid() bool {
	return m == InputFile || m == InputURL
}
