package usecase

import (
	"context"

	"task-intake-assistant/internal/conversation"
	"task-intake-assistant/internal/model"
)

// Start implements conversation.UseCase.
func (uc *implUseCase) Start(ctx context.Context, sc model.Scope) (conversation.Snapshot, error) {
	now := uc.now()
	s := &session{
		id:        uc.newID(),
		userID:    sc.UserID,
		createdAt: now,
		now:       uc.now,
		newID:     uc.newID,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	uc.sessions.Add(s.id, s)

	uc.l.Debugf(ctx, "%s.Start: session=%s user=%s", LogPrefix, s.id, sc.UserID)
	return s.snapshotLocked(), nil
}

// Get implements conversation.UseCase.
func (uc *implUseCase) Get(ctx context.Context, sc model.Scope, sessionID string) (conversation.Snapshot, error) {
	s, err := uc.lookup(sc, sessionID)
	if err != nil {
		return conversation.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Cancel implements conversation.UseCase. Cancelling twice is a no-op;
// a completed session cannot be cancelled.
func (uc *implUseCase) Cancel(ctx context.Context, sc model.Scope, sessionID string) (conversation.Snapshot, error) {
	s, err := uc.lookup(sc, sessionID)
	if err != nil {
		return conversation.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.Phase {
	case conversation.PhaseCompleted:
		return conversation.Snapshot{}, conversation.ErrSessionClosed
	case conversation.PhaseCancelled:
		return s.snapshotLocked(), nil
	}
	s.cancelLocked()
	uc.l.Infof(ctx, "%s.Cancel: session=%s", LogPrefix, s.id)
	return s.snapshotLocked(), nil
}

// Reset implements conversation.UseCase.
func (uc *implUseCase) Reset(ctx context.Context, sc model.Scope, sessionID string) (conversation.Snapshot, error) {
	s, err := uc.lookup(sc, sessionID)
	if err != nil {
		return conversation.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	uc.sessions.Add(s.id, s)
	uc.l.Infof(ctx, "%s.Reset: session=%s", LogPrefix, s.id)
	return s.snapshotLocked(), nil
}

// lookup returns the caller's session. Other users' sessions look missing.
func (uc *implUseCase) lookup(sc model.Scope, sessionID string) (*session, error) {
	s, ok := uc.sessions.Get(sessionID)
	if !ok || s.userID != sc.UserID {
		return nil, conversation.ErrSessionNotFound
	}
	return s, nil
}
