package task

import (
	"context"

	"task-intake-assistant/internal/model"
)

// UseCase is the persistence collaborator of the conversation: it stores
// registered tasks and manages their status afterwards.
type UseCase interface {
	// Create stores a task for sc.UserID and, when it is scheduled and a calendar
	// is configured, adds a calendar event. Calendar failures are not fatal.
	Create(ctx context.Context, sc model.Scope, input CreateInput) (model.Task, error)

	// List returns the caller's tasks, newest first, optionally filtered by status.
	List(ctx context.Context, sc model.Scope, input ListInput) ([]model.Task, error)

	UpdateStatus(ctx context.Context, sc model.Scope, input UpdateStatusInput) (model.Task, error)

	// Schedule sets scheduledAt and moves the task to "scheduled" in one update.
	Schedule(ctx context.Context, sc model.Scope, input ScheduleInput) (model.Task, error)
}
