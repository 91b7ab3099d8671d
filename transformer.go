package shades

import (
	"context"
	"strings"
)

// BaseInstruction is the fixed transformation prompt sent with every image.
const BaseInstruction = `Add cool "Deal With It" sunglasses to the person's face in this image. ` +
	`Make the sunglasses black and stylish, positioned perfectly over their eyes. ` +
	`Also add the text "DEAL WITH IT" at the bottom of the image in bold white letters with a black outline. ` +
	`Keep everything else in the image exactly the same - only add the sunglasses and text.`

// Transformer defines the interface for the external image generation service.
// Implementations make exactly one request per call.
type Transformer interface {
	// Transform sends the image and instruction and returns the single
	// image carried by the response.
	Transform(ctx context.Context, req TransformRequest) (*Artifact, error)
}

// TransformRequest is one call to the generation service.
type TransformRequest struct {
	// Image holds the transport-encoded source image.
	Image []byte
	// MIMEType is the format of Image.
	MIMEType string
	// Instruction is the combined prompt, see BuildInstruction.
	Instruction string
	// APIKey authenticates the request. Key storage belongs to the caller.
	APIKey string
}

// Encoder re-encodes a source image into a transport format.
type Encoder interface {
	Encode(img *Image) (data []byte, mimeType string, err error)
}

// BuildInstruction joins the base instruction with an optional user suffix.
func BuildInstruction(extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return BaseInstruction
	}
	return BaseInstruction + "\n\nAdditional instructions: " + extra
}
