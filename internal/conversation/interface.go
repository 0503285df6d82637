package conversation

import (
	"context"

	"task-intake-assistant/internal/model"
)

// UseCase drives one task-registration dialog per session.
type UseCase interface {
	// Start opens a new session in the initial phase.
	Start(ctx context.Context, sc model.Scope) (Snapshot, error)

	// SendMessage runs one turn. Turns on one session are serialized.
	SendMessage(ctx context.Context, sc model.Scope, input SendMessageInput) (TurnOutput, error)

	// Cancel ends the session without registering. It never waits for an
	// in-flight turn; that turn's result is discarded.
	Cancel(ctx context.Context, sc model.Scope, sessionID string) (Snapshot, error)

	// Reset clears the session back to the initial phase, keeping its id.
	Reset(ctx context.Context, sc model.Scope, sessionID string) (Snapshot, error)

	Get(ctx context.Context, sc model.Scope, sessionID string) (Snapshot, error)
}
