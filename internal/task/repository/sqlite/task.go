package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task/repository"
)

const taskColumns = `id, user_id, title, category, deadline, scheduled_at, duration_minutes,
	raw_input, status, calendar_link, created_at, updated_at`

func (r *implRepository) CreateTask(ctx context.Context, opt repository.CreateTaskOptions) (model.Task, error) {
	now := opt.Now.UTC().Format(time.RFC3339Nano)
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		opt.ID,
		opt.UserID,
		opt.Title,
		string(opt.Category),
		nullableString(opt.Deadline),
		nullableString(opt.ScheduledAt),
		nullableInt(opt.DurationMinutes),
		opt.RawInput,
		string(opt.Status),
		now,
		now,
	)
	if err != nil {
		r.l.Errorf(ctx, "%s.CreateTask: %v", LogPrefix, err)
		return model.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return r.GetTask(ctx, opt.ID)
}

func (r *implRepository) GetTask(ctx context.Context, id string) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *implRepository) GetTasks(ctx context.Context, opt repository.GetTasksOptions) ([]model.Task, error) {
	var (
		sb   strings.Builder
		args = []any{opt.UserID}
	)
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`)
	if opt.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, string(opt.Status))
	}
	sb.WriteString(` ORDER BY created_at DESC, id`)
	if opt.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, opt.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *implRepository) UpdateTaskStatus(ctx context.Context, opt repository.UpdateTaskStatusOptions) (model.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(opt.Status), opt.Now.UTC().Format(time.RFC3339Nano), opt.ID,
	)
	if err := checkUpdated(res, err, "updating task status"); err != nil {
		return model.Task{}, err
	}
	return r.GetTask(ctx, opt.ID)
}

func (r *implRepository) ScheduleTask(ctx context.Context, opt repository.ScheduleTaskOptions) (model.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET scheduled_at = ?, status = ?, updated_at = ? WHERE id = ?`,
		opt.ScheduledAt, string(model.TaskStatusScheduled), opt.Now.UTC().Format(time.RFC3339Nano), opt.ID,
	)
	if err := checkUpdated(res, err, "scheduling task"); err != nil {
		return model.Task{}, err
	}
	return r.GetTask(ctx, opt.ID)
}

func (r *implRepository) SetCalendarLink(ctx context.Context, id, link string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET calendar_link = ? WHERE id = ?`, link, id)
	return checkUpdated(res, err, "setting calendar link")
}

func checkUpdated(res sql.Result, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var (
		t                    model.Task
		category, status     string
		deadline, scheduled  sql.NullString
		duration             sql.NullInt64
		createdAt, updatedAt string
	)
	err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &category, &deadline, &scheduled, &duration,
		&t.RawInput, &status, &t.CalendarLink, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, fmt.Errorf("task: %w", repository.ErrNotFound)
		}
		return model.Task{}, fmt.Errorf("scanning task: %w", err)
	}

	t.Category = model.Category(category)
	t.Status = model.TaskStatus(status)
	t.Deadline = deadline.String
	t.ScheduledAt = scheduled.String
	if duration.Valid {
		d := int(duration.Int64)
		t.DurationMinutes = &d
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.Task{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return model.Task{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
