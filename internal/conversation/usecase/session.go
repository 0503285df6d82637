package usecase

import (
	"sync"
	"time"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/model"
)

const greeting = "登録したいタスクを入力してください。"

// session is one dialog. turnMu serializes turns; mu guards the fields.
// Cancel and Reset take only mu and bump epoch, so a turn that finishes
// after them sees a different epoch and drops its result.
type session struct {
	turnMu sync.Mutex

	mu        sync.Mutex
	id        string
	userID    string
	state     conversation.State
	messages  []conversation.Message
	task      *model.Task
	epoch     uint64
	createdAt time.Time
	updatedAt time.Time

	now   func() time.Time
	newID func() string
}

func (s *session) appendLocked(role conversation.Role, kind conversation.MessageKind, content string, options []string, field model.Field) {
	now := s.now()
	s.messages = append(s.messages, conversation.Message{
		ID:        s.newID(),
		Role:      role,
		Kind:      kind,
		Content:   content,
		Options:   options,
		Field:     field,
		CreatedAt: now,
	})
	s.updatedAt = now
}

// resetLocked puts the session back to a fresh initial state.
func (s *session) resetLocked() {
	s.epoch++
	s.state = conversation.State{Phase: conversation.PhaseInitial}
	s.messages = nil
	s.task = nil
	s.appendLocked(conversation.RoleAssistant, conversation.KindText, greeting, nil, "")
}

func (s *session) cancelLocked() {
	s.epoch++
	s.state = conversation.State{Phase: conversation.PhaseCancelled}
	s.appendLocked(conversation.RoleSystem, conversation.KindCancelled, "登録をキャンセルしました。", nil, "")
}

func (s *session) snapshotLocked() conversation.Snapshot {
	msgs := make([]conversation.Message, len(s.messages))
	copy(msgs, s.messages)
	var t *model.Task
	if s.task != nil {
		cp := *s.task
		t = &cp
	}
	return conversation.Snapshot{
		SessionID: s.id,
		UserID:    s.userID,
		State:     s.state,
		Messages:  msgs,
		Task:      t,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// outputLocked builds a turn result from the messages appended since mark.
func (s *session) outputLocked(mark int, warning *extraction.Warning, source extraction.Source) conversation.TurnOutput {
	snap := s.snapshotLocked()
	if mark > len(snap.Messages) {
		mark = len(snap.Messages)
	}
	return conversation.TurnOutput{
		Snapshot:    snap,
		NewMessages: snap.Messages[mark:],
		Warning:     warning,
		Source:      source,
	}
}
