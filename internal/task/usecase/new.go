package usecase

import (
	"context"
	"time"

	"task-intake-assistant/internal/task"
	"task-intake-assistant/internal/task/repository"
	"task-intake-assistant/pkg/gcalendar"
	pkgLog "task-intake-assistant/pkg/log"
)

const (
	LogPrefix = "task.usecase"

	calendarTimezone       = "Asia/Tokyo"
	defaultEventDurationMn = 60
)

// Calendar is the subset of the Google Calendar client used here.
type Calendar interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

type implUseCase struct {
	l          pkgLog.Logger
	repo       repository.Repository
	calendar   Calendar
	calendarID string
	now        func() time.Time
	newID      func() string
}

// Option customizes the use case.
type Option func(*implUseCase)

// WithCalendar enables calendar events for scheduled tasks.
func WithCalendar(c Calendar, calendarID string) Option {
	return func(uc *implUseCase) {
		uc.calendar = c
		uc.calendarID = calendarID
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(uc *implUseCase) { uc.now = now }
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(f func() string) Option {
	return func(uc *implUseCase) { uc.newID = f }
}

// New creates a new task UseCase.
func New(l pkgLog.Logger, repo repository.Repository, opts ...Option) task.UseCase {
	uc := &implUseCase{
		l:     l,
		repo:  repo,
		now:   time.Now,
		newID: newTaskID,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
