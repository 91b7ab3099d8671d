package shades

import (
	"encoding/base64"
	"image"
	"mime"
	"strings"
)

// Image is a source image: the bytes as acquired plus the decoded pixels.
// An Image is never mutated after it is built.
type Image struct {
	// Data holds the bytes exactly as they were loaded or fetched.
	Data []byte
	// MIMEType is the declared or upstream content type, without parameters.
	MIMEType string
	// Format is the container format the bytes actually decoded as
	// ("jpeg", "png", ...). It can disagree with MIMEType.
	Format string
	// Width and Height are the decoded dimensions in pixels.
	Width  int
	Height int
	// Pixels is the decoded pixel buffer.
	Pixels image.Image
}

// Artifact is a transformation result: a self-contained encoded image.
type Artifact struct {
	// Base64 holds the standard base64 encoding of the image bytes.
	Base64 string
	// MIMEType is the image format (e.g. "image/png").
	MIMEType string
}

// Bytes decodes the artifact payload.
func (a *Artifact) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(a.Base64)
}

// DataURL returns the artifact as a data: URL.
func (a *Artifact) DataURL() string {
	return "data:" + a.MIMEType + ";base64," + a.Base64
}

// Extension returns a file extension (with the dot) for the artifact.
func (a *Artifact) Extension() string {
	return ExtensionFor(a.MIMEType)
}

// ExtensionFor maps an image MIME type to a file extension.
// Unknown types get ".png", the download default.
func ExtensionFor(mimeType string) string {
	switch MediaType(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	default:
		return ".png"
	}
}

// MediaType returns the lower-cased media type of a content type header,
// dropping any parameters.
func MediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// IsImageMIME reports whether a content type belongs to the image family.
func IsImageMIME(contentType string) bool {
	return strings.HasPrefix(MediaType(contentType), "image/")
}
