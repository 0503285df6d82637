package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
	"task-intake-assistant/internal/task/repository/sqlite"
	"task-intake-assistant/internal/task/usecase"
	"task-intake-assistant/pkg/datemath"
	"task-intake-assistant/pkg/gcalendar"
	"task-intake-assistant/pkg/log"
)

type mockCalendar struct {
	reqs []gcalendar.CreateEventRequest
	err  error
}

func (m *mockCalendar) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return &gcalendar.Event{ID: "ev-1", HtmlLink: "https://calendar.google.com/event?eid=ev-1"}, nil
}

var alice = model.Scope{UserID: "alice", Source: model.SourceHTTP}

func newUseCase(t *testing.T, opts ...usecase.Option) task.UseCase {
	t.Helper()
	db, err := sqlite.OpenDB(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ids := 0
	base := []usecase.Option{
		usecase.WithClock(func() time.Time { return time.Date(2026, 10, 15, 10, 0, 0, 0, datemath.JST) }),
		usecase.WithIDGenerator(func() string {
			ids++
			return "task-" + string(rune('0'+ids))
		}),
	}
	return usecase.New(log.NewNop(), sqlite.New(log.NewNop(), db), append(base, opts...)...)
}

func TestCreate_InboxWithoutSchedule(t *testing.T) {
	uc := newUseCase(t)

	got, err := uc.Create(context.Background(), alice, task.CreateInput{
		Title:    " 買い物に行く ",
		Category: model.CategoryShopping,
		RawInput: "買い物に行く",
	})
	require.NoError(t, err)
	assert.Equal(t, "task-1", got.ID)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, "買い物に行く", got.Title)
	assert.Equal(t, model.TaskStatusInbox, got.Status)
	assert.Empty(t, got.CalendarLink)
}

func TestCreate_ScheduledAddsCalendarEvent(t *testing.T) {
	cal := &mockCalendar{}
	uc := newUseCase(t, usecase.WithCalendar(cal, "team@example.com"))
	dur := 30

	got, err := uc.Create(context.Background(), alice, task.CreateInput{
		Title:           "歯医者",
		Category:        model.CategoryPersonal,
		ScheduledAt:     "2026-10-16T15:00",
		DurationMinutes: &dur,
		Deadline:        "2026-10-16T23:59:00+09:00",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusScheduled, got.Status)
	assert.Equal(t, "2026-10-16T15:00:00+09:00", got.ScheduledAt)
	assert.Equal(t, "https://calendar.google.com/event?eid=ev-1", got.CalendarLink)

	require.Len(t, cal.reqs, 1)
	req := cal.reqs[0]
	assert.Equal(t, "team@example.com", req.CalendarID)
	assert.Equal(t, "歯医者", req.Summary)
	assert.Equal(t, 30*time.Minute, req.EndTime.Sub(req.StartTime))
	assert.Equal(t, "Asia/Tokyo", req.Timezone)
	assert.Equal(t, got.ID, req.TaskID)
	assert.Equal(t, "2", req.ColorID)

	listed, err := uc.List(context.Background(), alice, task.ListInput{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, got.CalendarLink, listed[0].CalendarLink, "link is persisted")
}

func TestCreate_CalendarFailureIsNotFatal(t *testing.T) {
	cal := &mockCalendar{err: errors.New("quota exceeded")}
	uc := newUseCase(t, usecase.WithCalendar(cal, ""))

	got, err := uc.Create(context.Background(), alice, task.CreateInput{
		Title:       "会議",
		Category:    model.CategoryWork,
		ScheduledAt: "2026-10-16T10:00:00+09:00",
	})
	require.NoError(t, err)
	assert.Empty(t, got.CalendarLink)
	assert.Equal(t, model.TaskStatusScheduled, got.Status)
}

func TestCreate_Validation(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, alice, task.CreateInput{Title: "  ", Category: model.CategoryWork})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	_, err = uc.Create(ctx, alice, task.CreateInput{Title: "x", Category: "errand"})
	assert.ErrorIs(t, err, task.ErrInvalidCategory)

	_, err = uc.Create(ctx, alice, task.CreateInput{Title: "x", Category: model.CategoryWork, ScheduledAt: "someday"})
	assert.ErrorIs(t, err, task.ErrInvalidScheduledAt)

	_, err = uc.Create(ctx, alice, task.CreateInput{Title: "x", Category: model.CategoryWork, Deadline: "tomorrow"})
	assert.ErrorIs(t, err, task.ErrInvalidDeadline)
}

func TestListUpdateSchedule(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	a, err := uc.Create(ctx, alice, task.CreateInput{Title: "a", Category: model.CategoryWork})
	require.NoError(t, err)
	_, err = uc.Create(ctx, model.Scope{UserID: "bob"}, task.CreateInput{Title: "b", Category: model.CategoryWork})
	require.NoError(t, err)

	inbox, err := uc.List(ctx, alice, task.ListInput{Status: model.TaskStatusInbox})
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	_, err = uc.List(ctx, alice, task.ListInput{Status: "doing"})
	assert.ErrorIs(t, err, task.ErrInvalidStatus)

	done, err := uc.UpdateStatus(ctx, alice, task.UpdateStatusInput{ID: a.ID, Status: model.TaskStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, done.Status)

	_, err = uc.UpdateStatus(ctx, model.Scope{UserID: "bob"}, task.UpdateStatusInput{ID: a.ID, Status: model.TaskStatusArchived})
	assert.ErrorIs(t, err, task.ErrNotFound, "other users' tasks are invisible")

	_, err = uc.UpdateStatus(ctx, alice, task.UpdateStatusInput{ID: a.ID, Status: "doing"})
	assert.ErrorIs(t, err, task.ErrInvalidStatus)

	sched, err := uc.Schedule(ctx, alice, task.ScheduleInput{ID: a.ID, ScheduledAt: "2026-10-20T01:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusScheduled, sched.Status)
	assert.Equal(t, "2026-10-20T10:00:00+09:00", sched.ScheduledAt)

	_, err = uc.Schedule(ctx, alice, task.ScheduleInput{ID: "missing", ScheduledAt: "2026-10-20"})
	assert.ErrorIs(t, err, task.ErrNotFound)

	_, err = uc.Schedule(ctx, alice, task.ScheduleInput{ID: a.ID, ScheduledAt: ""})
	assert.ErrorIs(t, err, task.ErrInvalidScheduledAt)
}

func TestCreateInputFromInfo(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, datemath.JST)

	full := model.TaskInfo{
		Title:           model.Some("歯医者"),
		Category:        model.Some(model.CategoryPersonal),
		ScheduledDate:   model.Some("2026-10-17"),
		ScheduledTime:   model.Some("afternoon"),
		DurationMinutes: model.Some(60),
		Deadline:        model.None[string](),
	}
	in := task.CreateInputFromInfo(full, "土曜の午後に歯医者", now)
	assert.Equal(t, "2026-10-17T15:00:00+09:00", in.ScheduledAt)
	require.NotNil(t, in.DurationMinutes)
	assert.Equal(t, 60, *in.DurationMinutes)
	assert.Empty(t, in.Deadline)
	assert.Equal(t, "土曜の午後に歯医者", in.RawInput)

	dateOnly := model.TaskInfo{ScheduledDate: model.Some("2026-10-17"), ScheduledTime: model.None[string]()}
	assert.Empty(t, task.CreateInputFromInfo(dateOnly, "", now).ScheduledAt, "no time means inbox")

	dateUnsetTime := model.TaskInfo{ScheduledDate: model.Some("2026-10-17")}
	assert.Empty(t, task.CreateInputFromInfo(dateUnsetTime, "", now).ScheduledAt)

	timeOnly := model.TaskInfo{ScheduledTime: model.Some("18:30")}
	assert.Equal(t, "2026-10-16T18:30:00+09:00", task.CreateInputFromInfo(timeOnly, "", now).ScheduledAt)

	assert.Empty(t, task.CreateInputFromInfo(model.TaskInfo{}, "", now).ScheduledAt)
}

func TestCreate_DateWithoutTimeStaysInInbox(t *testing.T) {
	cal := &mockCalendar{}
	uc := newUseCase(t, usecase.WithCalendar(cal, "primary"))
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, datemath.JST)

	info := model.TaskInfo{
		Title:           model.Some("牛乳を買う"),
		Category:        model.Some(model.CategoryShopping),
		ScheduledDate:   model.Some("2026-10-16"),
		ScheduledTime:   model.None[string](),
		Deadline:        model.None[string](),
		DurationMinutes: model.None[int](),
	}
	got, err := uc.Create(context.Background(), alice, task.CreateInputFromInfo(info, "明日牛乳を買う", now))
	require.NoError(t, err)

	assert.Equal(t, model.TaskStatusInbox, got.Status)
	assert.Empty(t, got.ScheduledAt)
	assert.Empty(t, got.CalendarLink)
	assert.Empty(t, cal.reqs)
}
