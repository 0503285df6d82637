package model

import "strings"

// Category is the closed set of task categories.
type Category string

const (
	CategoryShopping Category = "shopping"
	CategoryReply    Category = "reply"
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryShopping, CategoryReply, CategoryWork, CategoryPersonal, CategoryOther}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryShopping, CategoryReply, CategoryWork, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Field names one slot of TaskInfo.
type Field string

const (
	FieldTitle           Field = "title"
	FieldCategory        Field = "category"
	FieldDeadline        Field = "deadline"
	FieldScheduledDate   Field = "scheduledDate"
	FieldScheduledTime   Field = "scheduledTime"
	FieldDurationMinutes Field = "durationMinutes"
)

// FieldScheduledAt is accepted as an alias of FieldScheduledTime when naming the asked field.
const FieldScheduledAt = "scheduledAt"

// ParseField resolves a field name, mapping the scheduledAt alias to scheduledTime.
func ParseField(s string) (Field, bool) {
	switch f := Field(strings.TrimSpace(s)); f {
	case FieldTitle, FieldCategory, FieldDeadline, FieldScheduledDate, FieldScheduledTime, FieldDurationMinutes:
		return f, true
	}
	if strings.TrimSpace(s) == FieldScheduledAt {
		return FieldScheduledTime, true
	}
	return "", false
}

// TaskInfo is the slot record accumulated across a conversation.
type TaskInfo struct {
	Title           Opt[string]   `json:"title,omitzero"`
	Category        Opt[Category] `json:"category,omitzero"`
	Deadline        Opt[string]   `json:"deadline,omitzero"`        // zoned timestamp, 23:59 JST
	ScheduledDate   Opt[string]   `json:"scheduledDate,omitzero"`   // YYYY-MM-DD
	ScheduledTime   Opt[string]   `json:"scheduledTime,omitzero"`   // HH:mm or slot name
	DurationMinutes Opt[int]      `json:"durationMinutes,omitzero"` // > 0
}

// HasValues reports whether any slot holds a value; unset and none slots
// do not count.
func (t TaskInfo) HasValues() bool {
	return t.Title.HasValue() || t.Category.HasValue() || t.Deadline.HasValue() ||
		t.ScheduledDate.HasValue() || t.ScheduledTime.HasValue() || t.DurationMinutes.HasValue()
}

// IsEmpty reports whether no slot has been touched.
func (t TaskInfo) IsEmpty() bool {
	return t == TaskInfo{}
}

// Settled reports whether field f is none or holds a value.
func (t TaskInfo) Settled(f Field) bool {
	switch f {
	case FieldTitle:
		return t.Title.IsSettled()
	case FieldCategory:
		return t.Category.IsSettled()
	case FieldDeadline:
		return t.Deadline.IsSettled()
	case FieldScheduledDate:
		return t.ScheduledDate.IsSettled()
	case FieldScheduledTime:
		return t.ScheduledTime.IsSettled()
	case FieldDurationMinutes:
		return t.DurationMinutes.IsSettled()
	}
	return false
}

// Merge overlays every settled slot of patch onto t.
func (t TaskInfo) Merge(patch TaskInfo) TaskInfo {
	if patch.Title.IsSettled() {
		t.Title = patch.Title
	}
	if patch.Category.IsSettled() {
		t.Category = patch.Category
	}
	if patch.Deadline.IsSettled() {
		t.Deadline = patch.Deadline
	}
	if patch.ScheduledDate.IsSettled() {
		t.ScheduledDate = patch.ScheduledDate
	}
	if patch.ScheduledTime.IsSettled() {
		t.ScheduledTime = patch.ScheduledTime
	}
	if patch.DurationMinutes.IsSettled() {
		t.DurationMinutes = patch.DurationMinutes
	}
	return t
}
