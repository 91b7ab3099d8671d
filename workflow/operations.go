package workflow

import (
	"context"

	"github.com/spetersoncode/shades"
)

// Messages shown for failures that reach the workflow unclassified.
const (
	msgMissingKey     = "Please enter your API key"
	msgProcessFailed  = "Failed to process image. Please check your API key and try again."
	msgFetchFailed    = "Fetch error"
	msgPrepareFailed  = "Failed to prepare image"
	msgNoImageService = "the generation service"
)

// LoadLocalFile loads an image from raw bytes and a declared MIME type, as
// delivered by a file picker, drag-drop or paste.
//
// A non-image type is returned as an unsupported media error and leaves the
// phase alone. Undecodable bytes move the workflow to PhaseError and nil is
// returned. While a fetch or process is in flight the call is a no-op.
func (o *Orchestrator) LoadLocalFile(ctx context.Context, data []byte, declaredType string) error {
	if !shades.IsImageMIME(declaredType) {
		return shades.NewUnsupportedMediaError(declaredType)
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	if !CanFire(o.state, TriggerLoadFileSucceeded) {
		o.fireLocked(Trigger{Kind: TriggerLoadFileSucceeded}, "load")
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	img, err := o.opts.Decoder.Decode(data, declaredType)
	if shades.IsInvalidInput(err) {
		return err
	}

	t := Trigger{Kind: TriggerLoadFileSucceeded, Image: img}
	if err != nil {
		o.log.Info("local image rejected", "type", declaredType, "size", len(data), "error", err)
		t = Trigger{Kind: TriggerLoadFileFailed, Err: err}
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	next, ok := o.fireLocked(t, "load")
	o.mu.Unlock()

	if ok && next.Phase == PhaseImageLoaded {
		o.log.Debug("local image loaded", "type", img.MIMEType, "width", img.Width, "height", img.Height)
		return o.autoProcess(ctx)
	}
	return nil
}

// SubmitURL fetches a remote image through the proxy and loads it.
//
// An empty or malformed URL is returned as an invalid input error and
// leaves the phase alone. Fetch failures land in PhaseError and can be
// retried from the remembered URL. The call returns once the fetch settles.
func (o *Orchestrator) SubmitURL(ctx context.Context, rawURL string) error {
	u, err := shades.ParseImageURL(rawURL)
	if err != nil {
		return err
	}
	target := u.String()
	attempt := newAttempt()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	_, ok := o.fireLocked(Trigger{Kind: TriggerURLSubmitted, URL: target, Attempt: attempt}, "fetch")
	o.mu.Unlock()
	if !ok {
		return nil
	}

	if o.runFetch(ctx, target, attempt) {
		return o.autoProcess(ctx)
	}
	return nil
}

// Process sends the loaded image to the generation service with the base
// instruction and the current extra instructions. It returns once the call
// settles; the outcome is in the state.
//
// A missing API key is returned as an invalid input error. Without a loaded
// image, or while another operation is in flight, the call is a no-op.
func (o *Orchestrator) Process(ctx context.Context) error {
	key := o.apiKey()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	if !CanFire(o.state, TriggerProcessSubmitted) {
		o.fireLocked(Trigger{Kind: TriggerProcessSubmitted}, "process")
		o.mu.Unlock()
		return nil
	}
	if key == "" {
		o.mu.Unlock()
		return shades.NewInvalidInputError(msgMissingKey, nil)
	}
	attempt := newAttempt()
	next, ok := o.fireLocked(Trigger{Kind: TriggerProcessSubmitted, Attempt: attempt}, "process")
	extra := o.extra
	o.mu.Unlock()
	if !ok {
		return nil
	}

	o.runProcess(ctx, next.Source, extra, key, attempt)
	return nil
}

// Retry re-drives the failed operation. With a source image it processes
// again using the extra instructions held now; otherwise it fetches the
// last URL from scratch. It is a no-op unless the workflow is in PhaseError
// with a retryable failure.
func (o *Orchestrator) Retry(ctx context.Context) error {
	key := o.apiKey()

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	if !CanFire(o.state, TriggerRetry) {
		o.fireLocked(Trigger{Kind: TriggerRetry}, "retry")
		o.mu.Unlock()
		return nil
	}
	if o.state.Source != nil && key == "" {
		o.mu.Unlock()
		return shades.NewInvalidInputError(msgMissingKey, nil)
	}
	attempt := newAttempt()
	next, ok := o.fireLocked(Trigger{Kind: TriggerRetry, Attempt: attempt}, "retry")
	extra := o.extra
	o.mu.Unlock()
	if !ok {
		return nil
	}

	switch next.Phase {
	case PhaseProcessing:
		o.runProcess(ctx, next.Source, extra, key, attempt)
	case PhaseFetchingURL:
		if o.runFetch(ctx, next.LastURL, attempt) {
			return o.autoProcess(ctx)
		}
	}
	return nil
}

// runFetch performs the fetch for attempt and applies its completion.
// It reports whether the image was loaded.
func (o *Orchestrator) runFetch(ctx context.Context, target, attempt string) bool {
	log := o.log.With("attempt", attempt)
	log.Debug("fetching image", "url", target)

	t := Trigger{Kind: TriggerProxyFetchSucceeded, Attempt: attempt}
	data, contentType, err := o.fetcher.Fetch(ctx, target)
	if err == nil {
		var img *shades.Image
		img, err = o.opts.Decoder.Decode(data, contentType)
		if shades.KindOf(err) == shades.KindUnsupportedMedia {
			err = shades.NewNotAnImageError(contentType)
		}
		t.Image = img
	} else if shades.KindOf(err) == "" {
		err = shades.NewTransportError(msgFetchFailed, err)
	}
	if err != nil {
		log.Info("fetch failed", "url", target, "error", err)
		t = Trigger{Kind: TriggerProxyFetchFailed, Err: err, Attempt: attempt}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	next, ok := o.fireLocked(t, "fetch")
	return ok && next.Phase == PhaseImageLoaded
}

// runProcess performs the generation call for attempt and applies its
// completion. The source image is only read.
func (o *Orchestrator) runProcess(ctx context.Context, src *shades.Image, extra, key, attempt string) {
	log := o.log.With("attempt", attempt)

	art, err := o.transform(ctx, src, extra, key)
	t := Trigger{Kind: TriggerRemoteCallSucceeded, Result: art, Attempt: attempt}
	if err != nil {
		log.Info("process failed", "error", err)
		t = Trigger{Kind: TriggerRemoteCallFailed, Err: err, Attempt: attempt}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.fireLocked(t, "process")
}

func (o *Orchestrator) transform(ctx context.Context, src *shades.Image, extra, key string) (*shades.Artifact, error) {
	data, mimeType, err := o.opts.Encoder.Encode(src)
	if err != nil {
		return nil, shades.NewProcessingError(msgPrepareFailed, 0, err)
	}
	art, err := o.transformer.Transform(ctx, shades.TransformRequest{
		Image:       data,
		MIMEType:    mimeType,
		Instruction: shades.BuildInstruction(extra),
		APIKey:      key,
	})
	switch {
	case err != nil && shades.KindOf(err) == "":
		return nil, shades.NewProcessingError(msgProcessFailed, 0, err)
	case err != nil:
		return nil, err
	case art == nil || art.Base64 == "":
		return nil, shades.NewNoImageInResponseError(msgNoImageService)
	}
	return art, nil
}

// autoProcess starts processing after a load when enabled and a key is
// available.
func (o *Orchestrator) autoProcess(ctx context.Context) error {
	if !o.opts.AutoProcess || o.apiKey() == "" {
		return nil
	}
	return o.Process(ctx)
}
