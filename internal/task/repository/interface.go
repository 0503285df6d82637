package repository

import (
	"context"

	"task-intake-assistant/internal/model"
)

// Repository is the task store.
type Repository interface {
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)
	GetTask(ctx context.Context, id string) (model.Task, error)
	GetTasks(ctx context.Context, opt GetTasksOptions) ([]model.Task, error)
	UpdateTaskStatus(ctx context.Context, opt UpdateTaskStatusOptions) (model.Task, error)
	ScheduleTask(ctx context.Context, opt ScheduleTaskOptions) (model.Task, error)
	SetCalendarLink(ctx context.Context, id, link string) error
}
