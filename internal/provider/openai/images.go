package openai

import (
	"bytes"
	"context"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/shades"
)

// Transform uploads the image with the instruction to the image edit
// endpoint and returns the single base64 PNG in the reply.
func (c *Client) Transform(ctx context.Context, req shades.TransformRequest) (*shades.Artifact, error) {
	params := openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(req.Image), "source"+shades.ExtensionFor(req.MIMEType), req.MIMEType),
		},
		Prompt:       req.Instruction,
		Model:        openai.ImageModel(c.model.String()),
		N:            openai.Int(1),
		OutputFormat: openai.ImageEditParamsOutputFormatPNG,
	}

	resp, err := c.client.Images.Edit(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	for _, img := range resp.Data {
		if img.B64JSON != "" {
			return &shades.Artifact{Base64: img.B64JSON, MIMEType: "image/png"}, nil
		}
	}
	return nil, shades.NewNoImageInResponseError(providerName)
}

var _ shades.Transformer = (*Client)(nil)
