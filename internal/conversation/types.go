package conversation

import (
	"time"

	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/model"
)

// Phase is the dialog state.
//
//	initial -> collecting -> confirming -> completed
//	collecting/confirming -> cancelled
type Phase string

const (
	PhaseInitial    Phase = "initial"
	PhaseCollecting Phase = "collecting"
	PhaseConfirming Phase = "confirming"
	PhaseCompleted  Phase = "completed"
	PhaseCancelled  Phase = "cancelled"
)

// Terminal reports whether no further turns are accepted.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type MessageKind string

const (
	KindText         MessageKind = "text"
	KindQuestion     MessageKind = "question"
	KindConfirmation MessageKind = "confirmation"
	KindWarning      MessageKind = "warning"
	KindError        MessageKind = "error"
	KindCancelled    MessageKind = "cancelled"
	KindComplete     MessageKind = "complete"
)

// Message is one entry of the dialog transcript.
type Message struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	Options   []string    `json:"options,omitempty"`
	Field     model.Field `json:"field,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// State is the slot-filling state of one session.
type State struct {
	Phase        Phase          `json:"phase"`
	TaskInfo     model.TaskInfo `json:"taskInfo"`
	Context      string         `json:"context"`
	CurrentField model.Field    `json:"currentField,omitempty"`
	RawInput     string         `json:"rawInput,omitempty"` // first user text
}

// Snapshot is a copy of a session for callers.
type Snapshot struct {
	SessionID string      `json:"sessionId"`
	UserID    string      `json:"userId"`
	State                 // embedded so the wire form is flat
	Messages  []Message   `json:"messages"`
	Task      *model.Task `json:"task,omitempty"` // set once registered
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type SendMessageInput struct {
	SessionID string
	Text      string
	LLM       extraction.LLMConfig
}

// TurnOutput is the result of one turn: the session after it and the
// messages it appended.
type TurnOutput struct {
	Snapshot    Snapshot
	NewMessages []Message
	Warning     *extraction.Warning
	Source      extraction.Source
}
