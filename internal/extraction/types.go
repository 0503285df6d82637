package extraction

import (
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/resolver"
)

// LLMConfig selects a model for one call. An empty APIKey means the
// server-configured providers are used.
type LLMConfig struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl,omitempty"`
}

// ParseInput is one parse request.
type ParseInput struct {
	Input           string
	LLM             LLMConfig
	PreviousContext string
	CurrentTaskInfo model.TaskInfo
	CurrentField    string
}

// ParseResult is the extraction outcome, also the wire contract of the parse API.
type ParseResult struct {
	TaskInfo             model.TaskInfo `json:"taskInfo"`
	MissingFields        []model.Field  `json:"missingFields"`
	NextQuestion         *string        `json:"nextQuestion"`
	ClarificationOptions []string       `json:"clarificationOptions"`
	IsComplete           bool           `json:"isComplete"`
	RawInput             string         `json:"rawInput"`
	ConversationContext  string         `json:"conversationContext"`
}

// Source tells how a result was produced.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
	SourceResolver Source = "resolver"
	SourceControl  Source = "control"
)

// Warning is a soft failure reported alongside a usable result.
type Warning struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	UserMessage string `json:"userMessage"`
}

// ParseOutput wraps the result with how it was obtained.
type ParseOutput struct {
	Result  ParseResult
	Source  Source
	Action  resolver.Action // set when Source is SourceControl
	Warning *Warning
	UsedLLM bool
}
