package llmprovider

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicAdapter adapts the Anthropic Messages API to Provider.
type AnthropicAdapter struct {
	client anthropic.Client
	model  string
}

// NewAnthropicAdapter creates a new Anthropic adapter
func NewAnthropicAdapter(apiKey, model, baseURL string, timeout time.Duration) *AnthropicAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &AnthropicAdapter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// GenerateContent implements Provider interface
func (a *AnthropicAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &ProviderError{Provider: "anthropic", Err: err}
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, &ProviderError{Provider: "anthropic", Err: ErrEmptyResponse}
	}

	return &Response{
		Content:      content.String(),
		ProviderName: "anthropic",
		ModelName:    a.model,
		Usage: &Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
			TotalTokens:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

// Name returns provider name
func (a *AnthropicAdapter) Name() string {
	return "anthropic"
}

// Model returns model name
func (a *AnthropicAdapter) Model() string {
	return a.model
}
