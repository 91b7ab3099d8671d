package shades

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors by where they come from and how the workflow
// treats them.
type ErrorKind string

const (
	// KindInvalidInput is bad or missing user input (empty URL, bad scheme).
	// Surfaced immediately, never retryable.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindUnsupportedMedia is a local file whose declared type is not an image.
	KindUnsupportedMedia ErrorKind = "unsupported_media"

	// KindDecode is an image payload that could not be decoded.
	KindDecode ErrorKind = "decode"

	// KindRemoteFetch is a non-2xx reply from the fetch proxy.
	KindRemoteFetch ErrorKind = "remote_fetch"

	// KindNotAnImage is a remote payload whose content type is not image/*.
	KindNotAnImage ErrorKind = "not_an_image"

	// KindProcessing is a failure of the external generation service.
	KindProcessing ErrorKind = "processing"

	// KindNoImageInResponse is a generation response without an inline image.
	KindNoImageInResponse ErrorKind = "no_image_in_response"

	// KindTransport is a network-level failure anywhere.
	KindTransport ErrorKind = "transport"
)

// Error is a classified error carrying a user-facing message.
type Error struct {
	Msg   string
	Kind  ErrorKind
	Code  int   // HTTP status code, 0 if not applicable
	Cause error // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Message returns the user-facing message without the cause chain.
func (e *Error) Message() string {
	return e.Msg
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// NewInvalidInputError creates an error for bad or missing user input.
func NewInvalidInputError(msg string, cause error) *Error {
	return &Error{Msg: msg, Kind: KindInvalidInput, Cause: cause}
}

// NewUnsupportedMediaError creates an error for a non-image declared type.
func NewUnsupportedMediaError(declaredType string) *Error {
	msg := "Unsupported file type"
	if declaredType != "" {
		msg = fmt.Sprintf("Unsupported file type %q: please choose an image", declaredType)
	}
	return &Error{Msg: msg, Kind: KindUnsupportedMedia}
}

// NewDecodeError creates an error for an undecodable image payload.
func NewDecodeError(cause error) *Error {
	return &Error{Msg: "Failed to load image", Kind: KindDecode, Cause: cause}
}

// NewRemoteFetchError creates an error for a failed proxy fetch.
func NewRemoteFetchError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Kind: KindRemoteFetch, Code: statusCode, Cause: cause}
}

// NewNotAnImageError creates an error for a remote payload that is not an image.
func NewNotAnImageError(contentType string) *Error {
	return &Error{
		Msg:  fmt.Sprintf("URL is not an image (content type %q)", contentType),
		Kind: KindNotAnImage,
		Code: 400,
	}
}

// NewProcessingError creates an error for a failed generation call.
func NewProcessingError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Kind: KindProcessing, Code: statusCode, Cause: cause}
}

// NewNoImageInResponseError creates an error for a generation response
// that carried no image.
func NewNoImageInResponseError(provider string) *Error {
	return &Error{
		Msg:  fmt.Sprintf("No image returned from %s", provider),
		Kind: KindNoImageInResponse,
	}
}

// NewTransportError creates an error for a network-level failure.
func NewTransportError(msg string, cause error) *Error {
	return &Error{Msg: msg, Kind: KindTransport, Cause: cause}
}

// KindOf returns the kind of the first *Error in the chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvalidInput reports whether err is an invalid-input error.
// Unsupported media counts as invalid input.
func IsInvalidInput(err error) bool {
	switch KindOf(err) {
	case KindInvalidInput, KindUnsupportedMedia:
		return true
	}
	return false
}

// IsProcessing reports whether err is a generation failure.
// A response without an image counts as a processing failure.
func IsProcessing(err error) bool {
	switch KindOf(err) {
	case KindProcessing, KindNoImageInResponse:
		return true
	}
	return false
}

// IsFetch reports whether err came from acquiring a remote image.
func IsFetch(err error) bool {
	switch KindOf(err) {
	case KindRemoteFetch, KindNotAnImage:
		return true
	}
	return false
}

// StatusCodeOf returns the HTTP status code of a classified error, or 0.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// MessageOf returns the user-facing message for err. Classified errors
// yield their message without the cause chain.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
