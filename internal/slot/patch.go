package slot

import (
	"fmt"
	"math"
	"strings"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/datemath"
)

// ApplyPatch sets one field of info after validating value against the
// field's type. A nil value clears a required field (it will be asked again)
// and settles an optional field as none.
func ApplyPatch(info model.TaskInfo, f model.Field, value any) (model.TaskInfo, error) {
	if !IsKnownField(f) {
		return info, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}

	if value == nil {
		return clearField(info, f), nil
	}

	switch f {
	case model.FieldTitle:
		s, ok := value.(string)
		if !ok || !IsValidTitle(s) {
			return info, invalid(f, value)
		}
		info.Title = model.Some(strings.TrimSpace(s))

	case model.FieldCategory:
		var c model.Category
		switch v := value.(type) {
		case model.Category:
			c = v
		case string:
			c, _ = model.ParseCategory(v)
		}
		if !c.Valid() {
			return info, invalid(f, value)
		}
		info.Category = model.Some(c)

	case model.FieldDeadline:
		s, ok := value.(string)
		if !ok {
			return info, invalid(f, value)
		}
		eod, ok := datemath.EndOfDay(s)
		if !ok {
			return info, invalid(f, value)
		}
		info.Deadline = model.Some(eod)

	case model.FieldScheduledDate:
		s, ok := value.(string)
		if !ok || !datemath.IsDate(s) {
			return info, invalid(f, value)
		}
		info.ScheduledDate = model.Some(s)

	case model.FieldScheduledTime:
		s, ok := value.(string)
		if !ok || !(datemath.IsClock(s) || datemath.IsTimeSlot(s)) {
			return info, invalid(f, value)
		}
		info.ScheduledTime = model.Some(s)

	case model.FieldDurationMinutes:
		n, ok := positiveInt(value)
		if !ok {
			return info, invalid(f, value)
		}
		info.DurationMinutes = model.Some(n)
	}

	return info, nil
}

func clearField(info model.TaskInfo, f model.Field) model.TaskInfo {
	switch f {
	case model.FieldTitle:
		info.Title = model.Opt[string]{}
	case model.FieldCategory:
		info.Category = model.Opt[model.Category]{}
	case model.FieldDeadline:
		info.Deadline = model.None[string]()
	case model.FieldScheduledDate:
		info.ScheduledDate = model.None[string]()
	case model.FieldScheduledTime:
		info.ScheduledTime = model.None[string]()
	case model.FieldDurationMinutes:
		info.DurationMinutes = model.None[int]()
	}
	return info
}

func positiveInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n > 0
	case int64:
		return int(n), n > 0
	case float64:
		if n <= 0 || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func invalid(f model.Field, v any) error {
	return fmt.Errorf("%w: %s=%v", ErrInvalidValue, f, v)
}
