package http

import (
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/resolver"
)

// --- Request DTOs ---

type llmConfigReq struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
}

type parseReq struct {
	Input           string         `json:"input"`
	LLMConfig       llmConfigReq   `json:"llmConfig"`
	PreviousContext string         `json:"previousContext"`
	CurrentTaskInfo model.TaskInfo `json:"currentTaskInfo"`
	CurrentField    string         `json:"currentField"`
}

func (r parseReq) toInput() extraction.ParseInput {
	return extraction.ParseInput{
		Input: r.Input,
		LLM: extraction.LLMConfig{
			Provider: r.LLMConfig.Provider,
			Model:    r.LLMConfig.Model,
			APIKey:   r.LLMConfig.APIKey,
			BaseURL:  r.LLMConfig.BaseURL,
		},
		PreviousContext: r.PreviousContext,
		CurrentTaskInfo: r.CurrentTaskInfo,
		CurrentField:    r.CurrentField,
	}
}

// --- Response DTOs ---

type parseResp struct {
	extraction.ParseResult
	Source  extraction.Source   `json:"source"`
	Action  resolver.Action     `json:"action,omitempty"`
	Warning *extraction.Warning `json:"warning,omitempty"`
}

func (h *handler) newParseResp(out extraction.ParseOutput) parseResp {
	return parseResp{
		ParseResult: out.Result,
		Source:      out.Source,
		Action:      out.Action,
		Warning:     out.Warning,
	}
}
