package llmprovider

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Default endpoints for OpenAI-compatible providers.
const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DeepSeekBaseURL   = "https://api.deepseek.com/v1"
)

// OpenAIConfig configures an OpenAI-compatible chat completions client.
type OpenAIConfig struct {
	Name    string // reported provider name: "openai", "openrouter", "deepseek"
	APIKey  string
	Model   string
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
}

// OpenAIAdapter talks to any OpenAI-compatible chat completions endpoint.
type OpenAIAdapter struct {
	client openai.Client
	name   string
	model  string
}

// NewOpenAIAdapter creates a new OpenAI-compatible adapter
func NewOpenAIAdapter(cfg OpenAIConfig) *OpenAIAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	for k, v := range cfg.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	name := cfg.Name
	if name == "" {
		name = "openai"
	}

	return &OpenAIAdapter{
		client: openai.NewClient(opts...),
		name:   name,
		model:  cfg.Model,
	}
}

// GenerateContent implements Provider interface
func (a *OpenAIAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, ErrInvalidRequest
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	for _, m := range req.Messages {
		if m.Role == RoleAssistant {
			messages = append(messages, openai.AssistantMessage(m.Content))
			continue
		}
		messages = append(messages, openai.UserMessage(m.Content))
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &ProviderError{Provider: a.name, Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ProviderError{Provider: a.name, Err: ErrEmptyResponse}
	}

	return &Response{
		Content:      resp.Choices[0].Message.Content,
		ProviderName: a.name,
		ModelName:    a.model,
		Usage: &Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}, nil
}

// Name returns provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIAdapter) Model() string {
	return a.model
}
