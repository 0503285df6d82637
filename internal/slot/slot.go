package slot

import (
	"strings"

	"task-intake-assistant/internal/model"
)

// RequiredFields must hold valid values before a task is registrable.
var RequiredFields = []model.Field{model.FieldTitle, model.FieldCategory}

// OptionalFields are asked after the required ones, in this order.
var OptionalFields = []model.Field{
	model.FieldDeadline,
	model.FieldScheduledDate,
	model.FieldScheduledTime,
	model.FieldDurationMinutes,
}

// Placeholder titles that never count as a real title. Empty entries are
// ignored when matching.
var titleBlacklist = []string{
	"タイトル未定",
	"無題",
	"未設定",
	"新しいタスク",
	"untitled",
	"no title",
	"",
}

// IsValidTitle reports whether title is non-blank and not a placeholder.
func IsValidTitle(title string) bool {
	t := strings.TrimSpace(title)
	if t == "" {
		return false
	}
	lower := strings.ToLower(t)
	for _, p := range titleBlacklist {
		if p == "" {
			continue
		}
		if lower == p || strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// IsTaskComplete reports whether info is registrable: a valid title and a category.
func IsTaskComplete(info model.TaskInfo) bool {
	return IsPresent(info, model.FieldTitle) && IsPresent(info, model.FieldCategory)
}

// IsRegistrableLoosely is the force-register check: any non-blank title and a category.
func IsRegistrableLoosely(info model.TaskInfo) bool {
	title, _ := info.Title.Get()
	return strings.TrimSpace(title) != "" && IsPresent(info, model.FieldCategory)
}

// IsPresent reports whether field f counts as filled. Required fields need a
// valid value; optional fields only need to be settled (none counts).
func IsPresent(info model.TaskInfo, f model.Field) bool {
	switch f {
	case model.FieldTitle:
		title, ok := info.Title.Get()
		return ok && IsValidTitle(title)
	case model.FieldCategory:
		c, ok := info.Category.Get()
		return ok && c.Valid()
	}
	return info.Settled(f)
}

// NextMissingField returns the first field still to be asked. Required fields
// are always scanned; optional fields only when isInitial is false.
func NextMissingField(info model.TaskInfo, isInitial bool) (model.Field, bool) {
	for _, f := range RequiredFields {
		if !IsPresent(info, f) {
			return f, true
		}
	}
	if isInitial {
		return "", false
	}
	for _, f := range OptionalFields {
		if !IsPresent(info, f) {
			return f, true
		}
	}
	return "", false
}

// MissingRequiredFields lists the required fields without a valid value.
func MissingRequiredFields(info model.TaskInfo) []model.Field {
	missing := make([]model.Field, 0, len(RequiredFields))
	for _, f := range RequiredFields {
		if !IsPresent(info, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsKnownField reports whether f is one of the six slots.
func IsKnownField(f model.Field) bool {
	for _, k := range RequiredFields {
		if k == f {
			return true
		}
	}
	for _, k := range OptionalFields {
		if k == f {
			return true
		}
	}
	return false
}
