package http

import (
	"errors"

	"task-intake-assistant/internal/task"
	pkgErrors "task-intake-assistant/pkg/errors"
)

// mapError translates task domain errors into AppErrors. Anything unknown
// coming out of the store is a persistence failure.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, task.ErrNotFound):
		return pkgErrors.NotFound("task not found")
	case errors.Is(err, task.ErrEmptyTitle), errors.Is(err, task.ErrInvalidCategory):
		return pkgErrors.MissingRequiredField(err.Error())
	case errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidScheduledAt),
		errors.Is(err, task.ErrInvalidDeadline):
		return pkgErrors.InvalidInput(err.Error())
	default:
		return pkgErrors.DatabaseError(err)
	}
}
