package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/extraction"
	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/resolver"
	"task-intake-assistant/internal/slot"
	"task-intake-assistant/internal/task"
	pkgErrors "task-intake-assistant/pkg/errors"
)

// SendMessage implements conversation.UseCase.
func (uc *implUseCase) SendMessage(ctx context.Context, sc model.Scope, input conversation.SendMessageInput) (conversation.TurnOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return conversation.TurnOutput{}, conversation.ErrEmptyMessage
	}
	s, err := uc.lookup(sc, input.SessionID)
	if err != nil {
		return conversation.TurnOutput{}, err
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.Lock()
	if s.state.Phase.Terminal() {
		s.mu.Unlock()
		return conversation.TurnOutput{}, conversation.ErrSessionClosed
	}
	epoch := s.epoch
	mark := len(s.messages)
	s.appendLocked(conversation.RoleUser, conversation.KindText, text, nil, "")
	if s.state.Phase == conversation.PhaseInitial {
		s.state.Phase = conversation.PhaseCollecting
	}
	state := s.state
	s.mu.Unlock()

	// Re-adding refreshes the session's expiry.
	uc.sessions.Add(s.id, s)

	switch resolver.ControlAction(text) {
	case resolver.ActionCancel:
		return uc.cancelTurn(ctx, s, epoch, mark)
	case resolver.ActionConfirm:
		return uc.registerTurn(ctx, sc, s, epoch, mark, false)
	case resolver.ActionRegisterAnyway:
		return uc.registerTurn(ctx, sc, s, epoch, mark, true)
	}
	return uc.extractTurn(ctx, s, epoch, mark, state, text, input.LLM)
}

func (uc *implUseCase) cancelTurn(ctx context.Context, s *session, epoch uint64, mark int) (conversation.TurnOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return conversation.TurnOutput{}, conversation.ErrTurnSuperseded
	}
	s.cancelLocked()
	uc.l.Infof(ctx, "%s.SendMessage: session=%s declined", LogPrefix, s.id)
	return s.outputLocked(mark, nil, extraction.SourceControl), nil
}

// extractTurn runs extraction outside the lock, then merges the result
// unless the session was cancelled or reset meanwhile.
func (uc *implUseCase) extractTurn(
	ctx context.Context,
	s *session,
	epoch uint64,
	mark int,
	state conversation.State,
	text string,
	llm extraction.LLMConfig,
) (conversation.TurnOutput, error) {
	firstTurn := state.Context == "" && state.TaskInfo.IsEmpty()

	out, err := uc.extraction.ParseTask(ctx, extraction.ParseInput{
		Input:           text,
		LLM:             llm,
		PreviousContext: state.Context,
		CurrentTaskInfo: state.TaskInfo,
		CurrentField:    string(state.CurrentField),
	})
	if err != nil {
		return conversation.TurnOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		uc.l.Infof(ctx, "%s.SendMessage: session=%s result discarded after cancel/reset", LogPrefix, s.id)
		return conversation.TurnOutput{}, conversation.ErrTurnSuperseded
	}

	s.state.TaskInfo = out.Result.TaskInfo
	s.state.Context = out.Result.ConversationContext
	if firstTurn {
		s.state.RawInput = text
	}
	if out.Warning != nil {
		uc.l.Warnf(ctx, "%s.SendMessage: session=%s extraction fallback: %s", LogPrefix, s.id, out.Warning.Message)
		s.appendLocked(conversation.RoleSystem, conversation.KindWarning, out.Warning.UserMessage, nil, "")
	}
	askNextLocked(s, firstTurn)

	return s.outputLocked(mark, out.Warning, out.Source), nil
}

// registerTurn hands the collected task to the task store. Validation
// failures keep the dialog collecting; store failures keep the state so the
// user can retry.
func (uc *implUseCase) registerTurn(ctx context.Context, sc model.Scope, s *session, epoch uint64, mark int, loose bool) (conversation.TurnOutput, error) {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return conversation.TurnOutput{}, conversation.ErrTurnSuperseded
	}
	info, raw := s.state.TaskInfo, s.state.RawInput

	if err := checkRegistrable(info, loose); err != nil {
		appErr := pkgErrors.MissingRequiredField(err.Error())
		s.appendLocked(conversation.RoleSystem, conversation.KindError, appErr.UserMessage, nil, "")
		askNextLocked(s, true)
		out := s.outputLocked(mark, &extraction.Warning{
			Code:        string(appErr.Code),
			Message:     err.Error(),
			UserMessage: appErr.UserMessage,
		}, extraction.SourceControl)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	created, err := uc.tasks.Create(ctx, sc, task.CreateInputFromInfo(info, raw, uc.now()))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		if err == nil {
			uc.l.Warnf(ctx, "%s.SendMessage: session=%s closed while task %s was being stored", LogPrefix, s.id, created.ID)
		}
		return conversation.TurnOutput{}, conversation.ErrTurnSuperseded
	}
	if err != nil {
		uc.l.Errorf(ctx, "%s.SendMessage: session=%s tasks.Create: %v", LogPrefix, s.id, err)
		s.appendLocked(conversation.RoleSystem, conversation.KindError, pkgErrors.DatabaseError(err).UserMessage, nil, "")
		return s.outputLocked(mark, nil, extraction.SourceControl), fmt.Errorf("%w: %w", conversation.ErrPersistence, err)
	}

	s.task = &created
	s.state = conversation.State{Phase: conversation.PhaseCompleted}
	s.appendLocked(conversation.RoleAssistant, conversation.KindComplete, fmt.Sprintf("「%s」を登録しました。", created.Title), nil, "")
	uc.l.Infof(ctx, "%s.SendMessage: session=%s registered task %s", LogPrefix, s.id, created.ID)
	return s.outputLocked(mark, nil, extraction.SourceControl), nil
}

func checkRegistrable(info model.TaskInfo, loose bool) error {
	ok := slot.IsTaskComplete(info)
	if loose {
		ok = slot.IsRegistrableLoosely(info)
	}
	if !ok {
		missing := slot.MissingRequiredFields(info)
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return fmt.Errorf("%w: %s", conversation.ErrNotRegistrable, strings.Join(names, ", "))
	}
	return nil
}

// askNextLocked emits the question for the next missing field, or the
// confirmation when nothing is missing.
func askNextLocked(s *session, isInitial bool) {
	if next, ok := slot.NextMissingField(s.state.TaskInfo, isInitial); ok {
		if p, ok := slot.PromptWithControls(next); ok {
			s.state.Phase = conversation.PhaseCollecting
			s.state.CurrentField = next
			s.appendLocked(conversation.RoleAssistant, conversation.KindQuestion, p.Question, p.Options, next)
			return
		}
	}

	p := slot.ConfirmPrompt()
	s.state.Phase = conversation.PhaseConfirming
	s.state.CurrentField = ""
	s.appendLocked(conversation.RoleAssistant, conversation.KindConfirmation, summarize(s.state.TaskInfo, p.Question), p.Options, "")
}

// summarize lists the collected fields above the confirmation question.
func summarize(info model.TaskInfo, question string) string {
	var sb strings.Builder
	line := func(label, value string) {
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	line("タイトル", info.Title.OrZero())
	if c, ok := info.Category.Get(); ok {
		line("カテゴリー", slot.CategoryLabel(c))
	}
	if d, ok := info.ScheduledDate.Get(); ok {
		when := d
		if t, ok := info.ScheduledTime.Get(); ok {
			when += " " + timeLabel(t)
		}
		line("予定", when)
	} else if t, ok := info.ScheduledTime.Get(); ok {
		line("予定", timeLabel(t))
	}
	if d, ok := info.Deadline.Get(); ok {
		line("期限", d)
	}
	if m, ok := info.DurationMinutes.Get(); ok {
		line("所要時間", strconv.Itoa(m)+"分")
	}
	sb.WriteString(question)
	return sb.String()
}

var slotLabels = map[string]string{
	"morning":   "朝",
	"noon":      "昼",
	"afternoon": "午後",
	"evening":   "夜",
}

func timeLabel(t string) string {
	if l, ok := slotLabels[t]; ok {
		return l
	}
	return t
}
