package google

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/spetersoncode/shades"
	"google.golang.org/genai"
)

// Transform sends the instruction and the inline image in one
// GenerateContent call and returns the first image in the reply.
func (c *Client) Transform(ctx context.Context, req shades.TransformRequest) (*shades.Artifact, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: req.Instruction},
			{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Image}},
		},
	}}

	temp := c.temperature
	config := &genai.GenerateContentConfig{
		Temperature:        &temp,
		ResponseModalities: []string{"IMAGE"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model.String(), contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	return extractImage(resp)
}

// extractImage returns the first inline image part of the first candidate.
func extractImage(resp *genai.GenerateContentResponse) (*shades.Artifact, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		msg := fmt.Sprintf("Request blocked by %s: %s", providerName, resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			msg += " (" + resp.PromptFeedback.BlockReasonMessage + ")"
		}
		return nil, shades.NewProcessingError(msg, 0, nil)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, shades.NewNoImageInResponseError(providerName)
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := part.InlineData.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		return &shades.Artifact{
			Base64:   base64.StdEncoding.EncodeToString(part.InlineData.Data),
			MIMEType: mimeType,
		}, nil
	}
	return nil, shades.NewNoImageInResponseError(providerName)
}

var _ shades.Transformer = (*Client)(nil)
