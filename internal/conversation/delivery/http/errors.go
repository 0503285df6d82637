package http

import (
	"errors"

	"task-intake-assistant/internal/conversation"
	pkgErrors "task-intake-assistant/pkg/errors"
)

func (h *handler) mapError(err error, sessionID string) error {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		return pkgErrors.NotFound("session not found")
	case errors.Is(err, conversation.ErrSessionClosed):
		return pkgErrors.SessionClosed(sessionID)
	case errors.Is(err, conversation.ErrTurnSuperseded):
		return pkgErrors.TurnSuperseded(sessionID)
	case errors.Is(err, conversation.ErrEmptyMessage):
		return pkgErrors.InvalidInput("text is required")
	case errors.Is(err, conversation.ErrPersistence):
		return pkgErrors.DatabaseError(err)
	default:
		return pkgErrors.As(err)
	}
}
