package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/task"
	"task-intake-assistant/internal/task/repository"
	"task-intake-assistant/pkg/gcalendar"
)

func newTaskID() string {
	return uuid.NewString()
}

// Create implements task.UseCase.
func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, task.ErrEmptyTitle
	}
	if !input.Category.Valid() {
		return model.Task{}, task.ErrInvalidCategory
	}
	if input.Deadline != "" {
		if _, err := time.Parse(time.RFC3339, input.Deadline); err != nil {
			return model.Task{}, task.ErrInvalidDeadline
		}
	}
	var scheduledAt string
	if input.ScheduledAt != "" {
		at, err := normalizeScheduledAt(input.ScheduledAt)
		if err != nil {
			return model.Task{}, err
		}
		scheduledAt = at
	}

	status := model.TaskStatusInbox
	if scheduledAt != "" {
		status = model.TaskStatusScheduled
	}

	created, err := uc.repo.CreateTask(ctx, repository.CreateTaskOptions{
		ID:              uc.newID(),
		UserID:          sc.UserID,
		Title:           title,
		Category:        input.Category,
		Deadline:        input.Deadline,
		ScheduledAt:     scheduledAt,
		DurationMinutes: input.DurationMinutes,
		RawInput:        input.RawInput,
		Status:          status,
		Now:             uc.now(),
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s.Create: repo.CreateTask: %v", LogPrefix, err)
		return model.Task{}, err
	}
	uc.l.Infof(ctx, "%s.Create: created task %q id=%s status=%s", LogPrefix, created.Title, created.ID, created.Status)

	if link := uc.tryCreateCalendarEvent(ctx, created); link != "" {
		if err := uc.repo.SetCalendarLink(ctx, created.ID, link); err != nil {
			uc.l.Warnf(ctx, "%s.Create: saving calendar link for %s (non-fatal): %v", LogPrefix, created.ID, err)
		} else {
			created.CalendarLink = link
		}
	}
	return created, nil
}

// categoryColors maps categories to Google Calendar event colors.
var categoryColors = map[model.Category]string{
	model.CategoryShopping: "5", // banana
	model.CategoryReply:    "7", // peacock
	model.CategoryWork:     "9", // blueberry
	model.CategoryPersonal: "2", // sage
	model.CategoryOther:    "8", // graphite
}

// tryCreateCalendarEvent adds an event for a scheduled task and returns its
// link, or "" when there is no calendar or the call fails.
func (uc *implUseCase) tryCreateCalendarEvent(ctx context.Context, t model.Task) string {
	if uc.calendar == nil || t.ScheduledAt == "" {
		return ""
	}
	start, err := time.Parse(time.RFC3339, t.ScheduledAt)
	if err != nil {
		return ""
	}
	duration := defaultEventDurationMn
	if t.DurationMinutes != nil && *t.DurationMinutes > 0 {
		duration = *t.DurationMinutes
	}

	description := t.RawInput
	if t.Deadline != "" {
		description = strings.TrimSpace(fmt.Sprintf("%s\n\n期限: %s", description, t.Deadline))
	}

	event, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  uc.calendarID,
		TaskID:      t.ID,
		Summary:     t.Title,
		Description: description,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(duration) * time.Minute),
		Timezone:    calendarTimezone,
		ColorID:     categoryColors[t.Category],
	})
	if err != nil {
		uc.l.Warnf(ctx, "%s.Create: calendar event creation failed for %q (non-fatal): %v", LogPrefix, t.Title, err)
		return ""
	}
	return event.HtmlLink
}

// mapRepoError turns repository not-found errors into the domain error.
func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return task.ErrNotFound
	}
	return err
}
