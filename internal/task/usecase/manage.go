package usecase

import (
	"context"
	"strings"
	"time"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
	"task-intake-assistant/internal/task/repository"
	"task-intake-assistant/pkg/datemath"
)

// List implements task.UseCase.
func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input task.ListInput) ([]model.Task, error) {
	if input.Status != "" && !input.Status.Valid() {
		return nil, task.ErrInvalidStatus
	}
	tasks, err := uc.repo.GetTasks(ctx, repository.GetTasksOptions{
		UserID: sc.UserID,
		Status: input.Status,
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s.List: repo.GetTasks: %v", LogPrefix, err)
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus implements task.UseCase.
func (uc *implUseCase) UpdateStatus(ctx context.Context, sc model.Scope, input task.UpdateStatusInput) (model.Task, error) {
	if !input.Status.Valid() {
		return model.Task{}, task.ErrInvalidStatus
	}
	if _, err := uc.owned(ctx, sc, input.ID); err != nil {
		return model.Task{}, err
	}
	updated, err := uc.repo.UpdateTaskStatus(ctx, repository.UpdateTaskStatusOptions{
		ID:     input.ID,
		Status: input.Status,
		Now:    uc.now(),
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s.UpdateStatus: repo.UpdateTaskStatus: %v", LogPrefix, err)
		return model.Task{}, mapRepoError(err)
	}
	return updated, nil
}

// Schedule implements task.UseCase.
func (uc *implUseCase) Schedule(ctx context.Context, sc model.Scope, input task.ScheduleInput) (model.Task, error) {
	scheduledAt, err := normalizeScheduledAt(input.ScheduledAt)
	if err != nil {
		return model.Task{}, err
	}
	if _, err := uc.owned(ctx, sc, input.ID); err != nil {
		return model.Task{}, err
	}
	updated, err := uc.repo.ScheduleTask(ctx, repository.ScheduleTaskOptions{
		ID:          input.ID,
		ScheduledAt: scheduledAt,
		Now:         uc.now(),
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s.Schedule: repo.ScheduleTask: %v", LogPrefix, err)
		return model.Task{}, mapRepoError(err)
	}
	return updated, nil
}

// owned loads a task and hides tasks of other users as not found.
func (uc *implUseCase) owned(ctx context.Context, sc model.Scope, id string) (model.Task, error) {
	if strings.TrimSpace(id) == "" {
		return model.Task{}, task.ErrNotFound
	}
	t, err := uc.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, mapRepoError(err)
	}
	if t.UserID != sc.UserID {
		return model.Task{}, task.ErrNotFound
	}
	return t, nil
}

// normalizeScheduledAt accepts a zoned timestamp (or a bare date/local time,
// read as JST) and returns it as a JST offset timestamp.
func normalizeScheduledAt(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", task.ErrInvalidScheduledAt
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return datemath.ToZonedISOString(t), nil
	}
	parts, ok := datemath.SplitDateTime(s)
	if !ok {
		return "", task.ErrInvalidScheduledAt
	}
	clock := parts.Time
	if clock == "" {
		clock = "09:00"
	}
	at, ok := datemath.CombineDateAndTime(parts.Date, clock)
	if !ok {
		return "", task.ErrInvalidScheduledAt
	}
	return at, nil
}
