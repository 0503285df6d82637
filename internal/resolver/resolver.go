package resolver

import (
	"strings"
	"time"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/internal/slot"
	"task-intake-assistant/pkg/datemath"
)

// Resolver maps a chip selection or short typed answer onto a field
// without calling the model. It holds no state besides its clock.
type Resolver struct {
	now func() time.Time
}

// New returns a Resolver. A nil clock uses time.Now.
func New(now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{now: now}
}

// MapSelectionToField resolves option against the field last asked about.
// A false Success with no Action means the caller should fall back to
// free-text extraction.
func (r *Resolver) MapSelectionToField(option string, currentField string, info model.TaskInfo) FieldMappingResult {
	option = strings.TrimSpace(option)

	if action := ControlAction(option); action != ActionNone {
		return FieldMappingResult{Action: action}
	}

	field, ok := model.ParseField(currentField)
	if !ok {
		return FieldMappingResult{}
	}

	if option == slot.TokenSkip {
		return r.success(info, field, nil, "")
	}

	if field == model.FieldScheduledTime {
		if res, ok := r.mapClockTime(option, info); ok {
			return res
		}
	}

	table, ok := cannedTables[field]
	if !ok {
		return FieldMappingResult{}
	}
	fn, ok := table[option]
	if !ok {
		return FieldMappingResult{}
	}
	return r.success(info, field, fn(r.now()), "")
}

// ControlAction maps a verbatim control token to its action. Skip is not an
// action: it is resolved against the current field.
func ControlAction(text string) Action {
	switch strings.TrimSpace(text) {
	case slot.TokenCancel, slot.TokenDecline:
		return ActionCancel
	case slot.TokenForceRegister:
		return ActionRegisterAnyway
	case slot.TokenConfirm:
		return ActionConfirm
	}
	return ActionNone
}

// mapClockTime handles typed clock times ("15:00", "午後3時") for the time
// slot. Text that also names a relative date is left to the model.
func (r *Resolver) mapClockTime(option string, info model.TaskInfo) (FieldMappingResult, bool) {
	if _, hasDate := datemath.ParseRelativeDate(option, r.now()); hasDate {
		return FieldMappingResult{}, false
	}
	ct, ok := datemath.ParseTimeFromInput(option)
	if !ok {
		return FieldMappingResult{}, false
	}

	date, ok := info.ScheduledDate.Get()
	if !ok {
		date = datemath.StartOfDay(r.now()).AddDate(0, 0, 1).Format(datemath.DateLayout)
	}
	clock := ct.String()
	scheduledAt, ok := datemath.CombineDateAndTime(date, clock)
	if !ok {
		return FieldMappingResult{}, false
	}
	return r.success(info, model.FieldScheduledTime, clock, scheduledAt), true
}

func (r *Resolver) success(info model.TaskInfo, field model.Field, value any, scheduledAt string) FieldMappingResult {
	res := FieldMappingResult{
		Success:     true,
		Field:       field,
		Value:       value,
		ScheduledAt: scheduledAt,
	}
	if patched, err := slot.ApplyPatch(info, field, value); err == nil {
		info = patched
	}
	if next, ok := slot.NextMissingField(info, false); ok {
		res.NextField = next
	}
	return res
}
