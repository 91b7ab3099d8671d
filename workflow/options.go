package workflow

import (
	"log/slog"

	"github.com/spetersoncode/shades"
	"github.com/spetersoncode/shades/event"
	"github.com/spetersoncode/shades/imaging"
)

// KeySource returns the current API key for the generation service.
// Key storage is owned by the caller; an empty key blocks processing.
type KeySource func() string

// Options contains configuration for an orchestrator.
type Options struct {
	// Logger receives operational logs (default: slog.Default()).
	Logger *slog.Logger

	// Events receives workflow events. Sends never block.
	Events chan<- event.Event

	// Encoder re-encodes the source image for transport (default: JPEG).
	Encoder shades.Encoder

	// Decoder turns loaded or fetched bytes into a source image.
	Decoder Decoder

	// Keys supplies the API key at process time.
	Keys KeySource

	// InputMode is the initial acquisition path (default: InputFile).
	InputMode InputMode

	// AutoProcess starts processing as soon as an image is loaded,
	// provided an API key is available.
	AutoProcess bool
}

// Option is a functional option for orchestrator configuration.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithEvents sets the event channel.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithEncoder sets the transport encoder.
func WithEncoder(e shades.Encoder) Option {
	return func(o *Options) {
		o.Encoder = e
	}
}

// WithDecoder sets the image decoder.
func WithDecoder(d Decoder) Option {
	return func(o *Options) {
		o.Decoder = d
	}
}

// WithKeySource sets where the API key is read from.
func WithKeySource(k KeySource) Option {
	return func(o *Options) {
		o.Keys = k
	}
}

// WithAPIKey uses a fixed API key.
func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.Keys = func() string { return key }
	}
}

// WithInputMode sets the initial input mode.
func WithInputMode(m InputMode) Option {
	return func(o *Options) {
		o.InputMode = m
	}
}

// WithAutoProcess enables processing right after a successful load.
func WithAutoProcess(enabled bool) Option {
	return func(o *Options) {
		o.AutoProcess = enabled
	}
}

func applyOptions(opts []Option) *Options {
	o := &Options{
		Logger:    slog.Default(),
		Encoder:   imaging.JPEGEncoder{},
		Decoder:   imaging.Decoder{},
		InputMode: InputFile,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if !o.InputMode.Valid() {
		o.InputMode = InputFile
	}
	return o
}
