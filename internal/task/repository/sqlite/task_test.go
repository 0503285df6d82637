package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task/repository"
	"task-intake-assistant/pkg/log"
)

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(log.NewNop(), db)
}

func create(t *testing.T, repo repository.Repository, id, userID string, status model.TaskStatus, at time.Time) model.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), repository.CreateTaskOptions{
		ID:       id,
		UserID:   userID,
		Title:    "task " + id,
		Category: model.CategoryWork,
		Status:   status,
		Now:      at,
	})
	require.NoError(t, err)
	return task
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC)
	dur := 45

	got, err := repo.CreateTask(ctx, repository.CreateTaskOptions{
		ID:              "t-1",
		UserID:          "u-1",
		Title:           "歯医者",
		Category:        model.CategoryPersonal,
		Deadline:        "2026-10-18T23:59:00+09:00",
		ScheduledAt:     "2026-10-16T15:00:00+09:00",
		DurationMinutes: &dur,
		RawInput:        "明日15時に歯医者",
		Status:          model.TaskStatusScheduled,
		Now:             now,
	})
	require.NoError(t, err)

	assert.Equal(t, "歯医者", got.Title)
	assert.Equal(t, model.CategoryPersonal, got.Category)
	assert.Equal(t, "2026-10-16T15:00:00+09:00", got.ScheduledAt)
	require.NotNil(t, got.DurationMinutes)
	assert.Equal(t, 45, *got.DurationMinutes)
	assert.Equal(t, model.TaskStatusScheduled, got.Status)
	assert.True(t, got.CreatedAt.Equal(now))

	_, err = repo.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_OptionalFieldsStayEmpty(t *testing.T) {
	repo := newTestRepo(t)
	got := create(t, repo, "t-1", "u-1", model.TaskStatusInbox, time.Now())
	assert.Empty(t, got.Deadline)
	assert.Empty(t, got.ScheduledAt)
	assert.Nil(t, got.DurationMinutes)
}

func TestCreate_RejectsUnknownCategory(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateTask(context.Background(), repository.CreateTaskOptions{
		ID: "t-1", UserID: "u-1", Title: "x", Category: "errand", Status: model.TaskStatusInbox, Now: time.Now(),
	})
	assert.Error(t, err)
}

func TestGetTasks_FilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	create(t, repo, "a", "u-1", model.TaskStatusInbox, base)
	create(t, repo, "b", "u-1", model.TaskStatusScheduled, base.Add(time.Minute))
	create(t, repo, "c", "u-1", model.TaskStatusInbox, base.Add(2*time.Minute))
	create(t, repo, "d", "u-2", model.TaskStatusInbox, base)

	all, err := repo.GetTasks(context.Background(), repository.GetTasksOptions{UserID: "u-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	inbox, err := repo.GetTasks(context.Background(), repository.GetTasksOptions{UserID: "u-1", Status: model.TaskStatusInbox})
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	limited, err := repo.GetTasks(context.Background(), repository.GetTasksOptions{UserID: "u-1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repo.GetTasks(context.Background(), repository.GetTasksOptions{UserID: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateStatusAndSchedule(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := create(t, repo, "t-1", "u-1", model.TaskStatusInbox, time.Now().Add(-time.Hour))

	later := time.Now()
	done, err := repo.UpdateTaskStatus(ctx, repository.UpdateTaskStatusOptions{ID: "t-1", Status: model.TaskStatusCompleted, Now: later})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, done.Status)
	assert.True(t, done.UpdatedAt.After(created.UpdatedAt))

	sched, err := repo.ScheduleTask(ctx, repository.ScheduleTaskOptions{ID: "t-1", ScheduledAt: "2026-10-20T10:00:00+09:00", Now: later})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusScheduled, sched.Status)
	assert.Equal(t, "2026-10-20T10:00:00+09:00", sched.ScheduledAt)

	require.NoError(t, repo.SetCalendarLink(ctx, "t-1", "https://calendar.example/e1"))
	got, err := repo.GetTask(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "https://calendar.example/e1", got.CalendarLink)

	_, err = repo.UpdateTaskStatus(ctx, repository.UpdateTaskStatusOptions{ID: "nope", Status: model.TaskStatusArchived, Now: later})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.ScheduleTask(ctx, repository.ScheduleTaskOptions{ID: "nope", ScheduledAt: "x", Now: later})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOpenDB_File(t *testing.T) {
	path := t.TempDir() + "/nested/tasks.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	// Migrations are idempotent.
	require.NoError(t, Migrate(db))
}
