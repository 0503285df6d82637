package http

import (
	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/extraction"
)

// --- Request DTOs ---

type llmConfigReq struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseUrl"`
}

type sendMessageReq struct {
	Text      string       `json:"text"`
	LLMConfig llmConfigReq `json:"llmConfig"`
}

func (r sendMessageReq) toInput(sessionID string) conversation.SendMessageInput {
	return conversation.SendMessageInput{
		SessionID: sessionID,
		Text:      r.Text,
		LLM: extraction.LLMConfig{
			Provider: r.LLMConfig.Provider,
			Model:    r.LLMConfig.Model,
			APIKey:   r.LLMConfig.APIKey,
			BaseURL:  r.LLMConfig.BaseURL,
		},
	}
}

// --- Response DTOs ---

type sessionResp struct {
	conversation.Snapshot
}

type turnResp struct {
	Session     conversation.Snapshot  `json:"session"`
	NewMessages []conversation.Message `json:"newMessages"`
	Source      extraction.Source      `json:"source,omitempty"`
	Warning     *extraction.Warning    `json:"warning,omitempty"`
}

func (h *handler) newTurnResp(out conversation.TurnOutput) turnResp {
	return turnResp{
		Session:     out.Snapshot,
		NewMessages: out.NewMessages,
		Source:      out.Source,
		Warning:     out.Warning,
	}
}
