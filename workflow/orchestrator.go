package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/shades"
	"github.com/spetersoncode/shades/event"
)

// Fetcher retrieves a remote image, normally through the fetch proxy.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (data []byte, contentType string, err error)
}

// Decoder turns raw bytes with a declared type into a source image.
type Decoder interface {
	Decode(data []byte, declaredType string) (*shades.Image, error)
}

// Orchestrator owns the workflow state of one session and runs the
// operations that move it. It is safe for concurrent use: every trigger is
// applied to completion under one lock, and network calls run outside it.
type Orchestrator struct {
	fetcher     Fetcher
	transformer shades.Transformer
	opts        *Options
	log         *slog.Logger

	mu      sync.Mutex
	state   State
	extra   string
	started time.Time
	closed  bool
}

// New creates an orchestrator for one session, starting in PhaseIdle.
func New(fetcher Fetcher, transformer shades.Transformer, opts ...Option) *Orchestrator {
	o := applyOptions(opts)
	return &Orchestrator{
		fetcher:     fetcher,
		transformer: transformer,
		opts:        o,
		log:         o.Logger,
		state:       State{Phase: PhaseIdle, InputMode: o.InputMode},
	}
}

// Close ends the session. The state is discarded and every later operation
// is a no-op; completions still in flight are dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.state = State{Phase: PhaseIdle, InputMode: o.state.InputMode}
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Phase
}

// SetExtraInstructions sets the free-text suffix appended to the base
// instruction. It is read when a process or retry starts.
func (o *Orchestrator) SetExtraInstructions(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extra = text
}

// ExtraInstructions returns the current free-text suffix.
func (o *Orchestrator) ExtraInstructions() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.extra
}

// Output returns the image offered for copy and download: the result if
// there is one, otherwise the source image.
func (o *Orchestrator) Output() (data []byte, mimeType string, ok bool) {
	o.mu.Lock()
	s := o.state
	o.mu.Unlock()

	if s.Result != nil {
		b, err := s.Result.Bytes()
		if err == nil {
			return b, s.Result.MIMEType, true
		}
		o.log.Warn("result payload is not valid base64", "error", err)
	}
	if s.Source != nil {
		return s.Source.Data, s.Source.MIMEType, true
	}
	return nil, "", false
}

// Reset returns to PhaseIdle and clears the image, result, URL and error.
// An operation in flight is not aborted; its completion is dropped.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.fireLocked(Trigger{Kind: TriggerReset}, "reset")
}

// SwitchInputMode changes the acquisition path and returns to PhaseIdle.
// It is a no-op while a fetch or process is in flight.
func (o *Orchestrator) SwitchInputMode(mode InputMode) error {
	if !mode.Valid() {
		return shades.NewInvalidInputError("Unknown input mode "+mode.String(), nil)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.fireLocked(Trigger{Kind: TriggerSwitchInputMode, Mode: mode}, "switch_mode")
	return nil
}

// fireLocked applies t and emits the resulting events. Refusals are logged
// and reported as events, never returned: a refused trigger is a no-op.
// The caller holds o.mu.
func (o *Orchestrator) fireLocked(t Trigger, op string) (State, bool) {
	prev := o.state
	next, err := Next(prev, t)
	if err != nil {
		typ := event.OperationRejected
		if errors.Is(err, ErrStale) {
			typ = event.OperationStale
		}
		o.log.Debug("trigger refused", "trigger", t.Kind, "phase", prev.Phase, "error", err)
		o.emit(Event{Type: typ, Operation: op, Attempt: t.Attempt, Error: err, Message: err.Error()})
		return prev, false
	}
	o.state = next

	if next.Phase != prev.Phase {
		o.emit(Event{Type: event.PhaseChanged, From: prev.Phase.String(), To: next.Phase.String(), Operation: op, Attempt: next.Attempt})
	}
	if next.Busy() && !prev.Busy() {
		o.started = time.Now()
		o.emit(Event{Type: event.OperationStarted, Operation: op, Attempt: next.Attempt})
	}
	if prev.Busy() && !next.Busy() && t.Attempt != "" && t.Attempt == prev.Attempt {
		var failure error
		if next.LastError != nil {
			failure = next.LastError.Err
		}
		o.emit(Event{Type: event.OperationFinished, Operation: op, Attempt: prev.Attempt, Duration: time.Since(o.started), Error: failure})
	}
	return next, true
}

func (o *Orchestrator) emit(e Event) {
	event.Emit(o.opts.Events, e)
}

func (o *Orchestrator) apiKey() string {
	if o.opts.Keys == nil {
		return ""
	}
	return strings.TrimSpace(o.opts.Keys())
}

func newAttempt() string {
	return uuid.New().String()
}
