package repository

import (
	"time"

	"task-intake-assistant/internal/model"
)

// CreateTaskOptions holds the parameters for inserting a task.
type CreateTaskOptions struct {
	ID              string
	UserID          string
	Title           string
	Category        model.Category
	Deadline        string
	ScheduledAt     string
	DurationMinutes *int
	RawInput        string
	Status          model.TaskStatus
	Now             time.Time
}

// GetTasksOptions filters a user's tasks.
type GetTasksOptions struct {
	UserID string
	Status model.TaskStatus // empty means all
	Limit  int              // 0 means no limit
}

type UpdateTaskStatusOptions struct {
	ID     string
	Status model.TaskStatus
	Now    time.Time
}

type ScheduleTaskOptions struct {
	ID          string
	ScheduledAt string
	Now         time.Time
}
