package resolver

import "task-intake-assistant/internal/model"

// Action is a control command carried by a selection.
type Action string

const (
	ActionNone           Action = ""
	ActionCancel         Action = "cancel"
	ActionRegisterAnyway Action = "register_anyway"
	ActionConfirm        Action = "confirm"
)

// FieldMappingResult is the outcome of mapping one selection.
// When Action is set, Success is false and no field is touched.
type FieldMappingResult struct {
	Success   bool        `json:"success"`
	Field     model.Field `json:"field,omitempty"`
	Value     any         `json:"value"` // nil means "explicitly none"
	NextField model.Field `json:"nextField,omitempty"`
	Action    Action      `json:"action,omitempty"`
	// ScheduledAt is set by the clock-time path: the zoned timestamp built
	// from the parsed time and the known (or defaulted) date.
	ScheduledAt string `json:"scheduledAt,omitempty"`
}
