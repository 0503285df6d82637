package telegram

import (
	"errors"

	"task-intake-assistant/internal/conversation"
	pkgErrors "task-intake-assistant/pkg/errors"
)

// errorMessage returns the user-facing text for a failed turn.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, conversation.ErrTurnSuperseded):
		return pkgErrors.TurnSuperseded("").UserMessage
	case errors.Is(err, conversation.ErrPersistence):
		return pkgErrors.DatabaseError(err).UserMessage
	default:
		return pkgErrors.As(err).UserMessage
	}
}

// restartable reports whether the chat should get a fresh session and retry.
func restartable(err error) bool {
	return errors.Is(err, conversation.ErrSessionNotFound) || errors.Is(err, conversation.ErrSessionClosed)
}
