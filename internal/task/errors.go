package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrNotFound           = errors.New("task not found")
	ErrEmptyTitle         = errors.New("task title is empty")
	ErrInvalidCategory    = errors.New("invalid task category")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidScheduledAt = errors.New("invalid scheduledAt")
	ErrInvalidDeadline    = errors.New("invalid deadline")
)
