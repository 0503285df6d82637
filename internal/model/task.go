package model

import "time"

// TaskStatus is the lifecycle status of a persisted task.
type TaskStatus string

const (
	TaskStatusInbox     TaskStatus = "inbox"
	TaskStatusScheduled TaskStatus = "scheduled"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusArchived  TaskStatus = "archived"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusInbox, TaskStatusScheduled, TaskStatusCompleted, TaskStatusArchived:
		return true
	}
	return false
}

// Task is a registered task.
type Task struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Title           string     `json:"title"`
	Category        Category   `json:"category"`
	Deadline        string     `json:"deadline,omitempty"`
	ScheduledAt     string     `json:"scheduledAt,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	RawInput        string     `json:"rawInput,omitempty"`
	Status          TaskStatus `json:"status"`
	CalendarLink    string     `json:"calendarLink,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
