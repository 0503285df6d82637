package task

import (
	"time"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/datemath"
)

// CreateInput is the full field set handed over when a conversation registers a task.
type CreateInput struct {
	Title           string
	Category        model.Category
	Deadline        string // zoned timestamp, optional
	ScheduledAt     string // zoned timestamp, optional
	DurationMinutes *int
	RawInput        string
}

type ListInput struct {
	Status model.TaskStatus // empty means all
}

type UpdateStatusInput struct {
	ID     string
	Status model.TaskStatus
}

type ScheduleInput struct {
	ID          string
	ScheduledAt string
}

// CreateInputFromInfo flattens collected slots into a CreateInput.
// The date and time slots are combined into scheduledAt. A date without a
// time leaves scheduledAt empty so the task stays in the inbox; a time
// without a date gets tomorrow.
func CreateInputFromInfo(info model.TaskInfo, rawInput string, now time.Time) CreateInput {
	in := CreateInput{
		Title:    info.Title.OrZero(),
		Category: info.Category.OrZero(),
		Deadline: info.Deadline.OrZero(),
		RawInput: rawInput,
	}
	if d, ok := info.DurationMinutes.Get(); ok {
		in.DurationMinutes = &d
	}
	in.ScheduledAt = scheduledAtFromInfo(info, now)
	return in
}

func scheduledAtFromInfo(info model.TaskInfo, now time.Time) string {
	date, hasDate := info.ScheduledDate.Get()
	clock, hasTime := info.ScheduledTime.Get()
	if !hasTime {
		return ""
	}
	if !hasDate {
		date = datemath.StartOfDay(now).AddDate(0, 0, 1).Format(datemath.DateLayout)
	}
	at, ok := datemath.CombineDateAndTime(date, clock)
	if !ok {
		return ""
	}
	return at
}
