package workflow

import (
	"slices"
	"strings"

	"github.com/spetersoncode/shades"
)

// TriggerKind names an event fed to the state machine.
type TriggerKind string

const (
	TriggerLoadFileSucceeded   TriggerKind = "load_file_succeeded"
	TriggerLoadFileFailed      TriggerKind = "load_file_failed"
	TriggerURLSubmitted        TriggerKind = "url_submitted"
	TriggerProxyFetchSucceeded TriggerKind = "proxy_fetch_succeeded"
	TriggerProxyFetchFailed    TriggerKind = "proxy_fetch_failed"
	TriggerProcessSubmitted    TriggerKind = "process_submitted"
	TriggerRemoteCallSucceeded TriggerKind = "remote_call_succeeded"
	TriggerRemoteCallFailed    TriggerKind = "remote_call_failed"
	TriggerReset               TriggerKind = "reset"
	TriggerRetry               TriggerKind = "retry"
	TriggerSwitchInputMode     TriggerKind = "switch_input_mode"
)

// Trigger is one event with its payload. Only the fields relevant to Kind
// are read.
type Trigger struct {
	Kind TriggerKind

	// Image is the decoded image for LoadFileSucceeded and ProxyFetchSucceeded.
	Image *shades.Image

	// URL is the submitted URL for URLSubmitted.
	URL string

	// Result is the artifact for RemoteCallSucceeded.
	Result *shades.Artifact

	// Err is the failure for the *Failed triggers.
	Err error

	// Mode is the requested mode for SwitchInputMode.
	Mode InputMode

	// Attempt is the new attempt id for busy-entering triggers, and the
	// attempt a completion belongs to for completion triggers.
	Attempt string
}

// rule is one row group of the transition table.
type rule struct {
	// from lists the phases the trigger is accepted in; nil means any.
	from []Phase
	// completion triggers settle a busy attempt and must match it.
	completion bool
	// guard checks the state; payload checks the trigger.
	guard   func(s State) string
	payload func(t Trigger) string
	apply   func(s *State, t Trigger)
}

var settled = []Phase{PhaseIdle, PhaseImageLoaded, PhaseDone, PhaseError}

var order = []TriggerKind{
	TriggerLoadFileSucceeded,
	TriggerLoadFileFailed,
	TriggerURLSubmitted,
	TriggerProxyFetchSucceeded,
	TriggerProxyFetchFailed,
	TriggerProcessSubmitted,
	TriggerRemoteCallSucceeded,
	TriggerRemoteCallFailed,
	TriggerReset,
	TriggerRetry,
	TriggerSwitchInputMode,
}

var rules = map[TriggerKind]rule{
	TriggerLoadFileSucceeded: {
		from:    settled,
		guard:   modeIs(InputFile),
		payload: needImage,
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseImageLoaded
			s.Source = t.Image
			s.Result = nil
			s.LastURL = ""
			s.LastError = nil
		},
	},
	TriggerLoadFileFailed: {
		from:  settled,
		guard: modeIs(InputFile),
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseError
			s.Source = nil
			s.Result = nil
			s.LastURL = ""
			s.LastError = newFailure(t.Err, false)
		},
	},
	TriggerURLSubmitted: {
		from:  settled,
		guard: modeIs(InputURL),
		payload: func(t Trigger) string {
			if strings.TrimSpace(t.URL) == "" {
				return "empty url"
			}
			return ""
		},
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseFetchingURL
			s.LastURL = strings.TrimSpace(t.URL)
			s.Source = nil
			s.Result = nil
			s.LastError = nil
			s.Attempt = t.Attempt
		},
	},
	TriggerProxyFetchSucceeded: {
		from:       []Phase{PhaseFetchingURL},
		completion: true,
		payload:    needImage,
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseImageLoaded
			s.Source = t.Image
		},
	},
	TriggerProxyFetchFailed: {
		from:       []Phase{PhaseFetchingURL},
		completion: true,
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseError
			s.LastError = newFailure(t.Err, s.LastURL != "")
		},
	},
	TriggerProcessSubmitted: {
		from: []Phase{PhaseImageLoaded, PhaseDone},
		guard: func(s State) string {
			if s.Source == nil {
				return "no source image"
			}
			return ""
		},
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseProcessing
			s.LastError = nil
			s.Attempt = t.Attempt
		},
	},
	TriggerRemoteCallSucceeded: {
		from:       []Phase{PhaseProcessing},
		completion: true,
		payload: func(t Trigger) string {
			if t.Result == nil {
				return "no result"
			}
			return ""
		},
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseDone
			s.Result = t.Result
		},
	},
	TriggerRemoteCallFailed: {
		from:       []Phase{PhaseProcessing},
		completion: true,
		apply: func(s *State, t Trigger) {
			s.Phase = PhaseError
			s.LastError = newFailure(t.Err, s.Source != nil)
		},
	},
	TriggerReset: {
		apply: func(s *State, t Trigger) {
			*s = State{Phase: PhaseIdle, InputMode: s.InputMode}
		},
	},
	TriggerRetry: {
		from: []Phase{PhaseError},
		guard: func(s State) string {
			if !s.Retryable() {
				return "not retryable"
			}
			return ""
		},
		apply: func(s *State, t Trigger) {
			// A held source image takes precedence over the last URL: once an
			// image is loaded the URL has served its purpose.
			if s.Source != nil {
				s.Phase = PhaseProcessing
			} else {
				s.Phase = PhaseFetchingURL
				s.Result = nil
			}
			s.LastError = nil
			s.Attempt = t.Attempt
		},
	},
	TriggerSwitchInputMode: {
		from: settled,
		payload: func(t Trigger) string {
			if !t.Mode.Valid() {
				return "unknown input mode"
			}
			return ""
		},
		apply: func(s *State, t Trigger) {
			*s = State{Phase: PhaseIdle, InputMode: t.Mode}
		},
	},
}

func modeIs(m InputMode) func(State) string {
	return func(s State) string {
		if s.InputMode != m {
			return "input mode is " + s.InputMode.String()
		}
		return ""
	}
}

func needImage(t Trigger) string {
	if t.Image == nil {
		return "no image"
	}
	return ""
}

// Next applies t to s and returns the resulting state. A refused trigger
// returns s unchanged and a *TransitionError wrapping ErrNotPermitted,
// ErrBusy, ErrGuard or ErrStale.
func Next(s State, t Trigger) (State, error) {
	r, ok := rules[t.Kind]
	if !ok {
		return s, &TransitionError{Trigger: t.Kind, Phase: s.Phase, Reason: "unknown trigger", Err: ErrNotPermitted}
	}
	if r.completion && t.Attempt != s.Attempt {
		return s, &TransitionError{Trigger: t.Kind, Phase: s.Phase, Err: ErrStale}
	}
	if err := r.allowed(s, t.Kind); err != nil {
		return s, err
	}
	if r.payload != nil {
		if reason := r.payload(t); reason != "" {
			return s, &TransitionError{Trigger: t.Kind, Phase: s.Phase, Reason: reason, Err: ErrGuard}
		}
	}
	next := s
	r.apply(&next, t)
	return next, nil
}

func (r rule) allowed(s State, kind TriggerKind) error {
	if r.from != nil && !slices.Contains(r.from, s.Phase) {
		if s.Busy() && !r.completion {
			return &TransitionError{Trigger: kind, Phase: s.Phase, Err: ErrBusy}
		}
		return &TransitionError{Trigger: kind, Phase: s.Phase, Err: ErrNotPermitted}
	}
	if r.guard != nil {
		if reason := r.guard(s); reason != "" {
			return &TransitionError{Trigger: kind, Phase: s.Phase, Reason: reason, Err: ErrGuard}
		}
	}
	return nil
}

// CanFire reports whether the trigger kind is accepted in s, ignoring the
// payload. Completion triggers are only checked against the phase.
func CanFire(s State, kind TriggerKind) bool {
	r, ok := rules[kind]
	if !ok {
		return false
	}
	return r.allowed(s, kind) == nil
}

// Permitted returns the trigger kinds CanFire accepts in s.
func Permitted(s State) []TriggerKind {
	var kinds []TriggerKind
	for _, k := range order {
		if CanFire(s, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
