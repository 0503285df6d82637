package llmprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiAdapter adapts the Gemini API (google.golang.org/genai) to Provider.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*GeminiAdapter, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}
	if timeout > 0 {
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAdapter{client: client, model: model}, nil
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.SystemInstruction != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, gc)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &ProviderError{Provider: "gemini", Err: ErrEmptyResponse}
	}

	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			content.WriteString(part.Text)
		}
	}
	if content.Len() == 0 {
		return nil, &ProviderError{Provider: "gemini", Err: ErrEmptyResponse}
	}

	usage := &Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &Response{
		Content:      content.String(),
		ProviderName: "gemini",
		ModelName:    a.model,
		Usage:        usage,
	}, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.model
}
