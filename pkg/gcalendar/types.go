package gcalendar

import "time"

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "taskId"

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID  string
	TaskID      string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string // IANA name, e.g. "Asia/Tokyo"
	ColorID     string // Calendar event color "1".."11", empty for the calendar default
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
}
