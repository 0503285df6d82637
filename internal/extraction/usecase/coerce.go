package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/datemath"
)

// Absent controls how keys missing from a model reply are treated.
type Absent int

const (
	// AbsentUnchanged leaves missing keys unset (continuation: no change).
	AbsentUnchanged Absent = iota
	// AbsentAsNone settles missing optional keys as none (first turn: the
	// model was asked for every key).
	AbsentAsNone
)

// Japanese category labels the model sometimes echoes back.
var categoryLabels = map[string]model.Category{
	"買い物": model.CategoryShopping,
	"返信":  model.CategoryReply,
	"仕事":  model.CategoryWork,
	"個人":  model.CategoryPersonal,
	"その他": model.CategoryOther,
}

// DecodeExtraction validates and normalizes a model reply into slot values.
// null settles a field as none; a value that fails validation leaves the
// field unset so it can be asked about.
func DecodeExtraction(raw []byte, now time.Time, absent Absent) (model.TaskInfo, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.TaskInfo{}, fmt.Errorf("decode extraction: %w", err)
	}

	var info model.TaskInfo

	if v, ok := lookup(fields, "title"); ok {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
			info.Title = model.Some(strings.TrimSpace(s))
		}
	}
	if v, ok := lookup(fields, "category"); ok {
		info.Category = CoerceCategory(v)
	}
	if v, ok := lookup(fields, "scheduledDate"); ok {
		info.ScheduledDate = CoerceScheduledDate(v, now)
	}
	if v, ok := lookup(fields, "scheduledTime"); ok {
		info.ScheduledTime = CoerceScheduledTime(v)
	}
	if v, ok := lookup(fields, "deadline"); ok {
		info.Deadline = CoerceDeadline(v, now)
	}
	if v, ok := lookup(fields, "durationMinutes"); ok {
		info.DurationMinutes = CoerceDuration(v)
	}

	if absent == AbsentAsNone {
		if _, ok := fields["scheduledDate"]; !ok {
			info.ScheduledDate = model.None[string]()
		}
		if _, ok := fields["scheduledTime"]; !ok {
			info.ScheduledTime = model.None[string]()
		}
		if _, ok := fields["deadline"]; !ok {
			info.Deadline = model.None[string]()
		}
		if _, ok := fields["durationMinutes"]; !ok {
			info.DurationMinutes = model.None[int]()
		}
	}

	return info, nil
}

// lookup decodes one key. ok is false when the key is absent or not valid JSON.
func lookup(fields map[string]json.RawMessage, key string) (any, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// isNullString reports whether s is a stringly-typed null.
func isNullString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null", "none", "nil":
		return true
	}
	return false
}

// CoerceCategory accepts the five category values (or their Japanese labels).
func CoerceCategory(v any) model.Opt[model.Category] {
	if v == nil {
		return model.None[model.Category]()
	}
	s, ok := v.(string)
	if !ok {
		return model.Opt[model.Category]{}
	}
	if isNullString(s) {
		return model.None[model.Category]()
	}
	if c, ok := model.ParseCategory(s); ok {
		return model.Some(c)
	}
	if c, ok := categoryLabels[strings.TrimSpace(s)]; ok {
		return model.Some(c)
	}
	return model.Opt[model.Category]{}
}

// CoerceScheduledDate accepts YYYY-MM-DD, then relative phrases resolved against now.
func CoerceScheduledDate(v any, now time.Time) model.Opt[string] {
	if v == nil {
		return model.None[string]()
	}
	s, ok := v.(string)
	if !ok {
		return model.Opt[string]{}
	}
	s = strings.TrimSpace(s)
	if s == "" || isNullString(s) || datemath.IsNoDatePhrase(s) {
		return model.None[string]()
	}
	if datemath.IsDate(s) {
		return model.Some(s)
	}
	if parts, ok := datemath.SplitDateTime(s); ok {
		return model.Some(parts.Date)
	}
	if rel, ok := datemath.ParseRelativeDate(s, now); ok {
		return model.Some(rel.Date.Format(datemath.DateLayout))
	}
	return model.Opt[string]{}
}

// CoerceScheduledTime accepts HH:mm (H:mm is padded) or one of the four slot
// names. The string "null" and "unspecified" mean none.
func CoerceScheduledTime(v any) model.Opt[string] {
	if v == nil {
		return model.None[string]()
	}
	s, ok := v.(string)
	if !ok {
		return model.Opt[string]{}
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || isNullString(s) || s == string(datemath.SlotUnspecified) {
		return model.None[string]()
	}
	if datemath.IsTimeSlot(s) {
		return model.Some(s)
	}
	if len(s) == 4 && s[1] == ':' {
		s = "0" + s
	}
	if datemath.IsClock(s) {
		return model.Some(s)
	}
	return model.Opt[string]{}
}

// CoerceDeadline normalizes to a zoned timestamp stamped 23:59 JST.
func CoerceDeadline(v any, now time.Time) model.Opt[string] {
	if v == nil {
		return model.None[string]()
	}
	s, ok := v.(string)
	if !ok {
		return model.Opt[string]{}
	}
	s = strings.TrimSpace(s)
	if s == "" || isNullString(s) || datemath.IsNoDatePhrase(s) {
		return model.None[string]()
	}
	iso, ok := datemath.NormalizeDateTime(s, now)
	if !ok {
		return model.Opt[string]{}
	}
	eod, ok := datemath.EndOfDay(iso)
	if !ok {
		return model.Opt[string]{}
	}
	return model.Some(eod)
}

// CoerceDuration accepts a positive number of minutes or a duration phrase.
func CoerceDuration(v any) model.Opt[int] {
	switch n := v.(type) {
	case nil:
		return model.None[int]()
	case float64:
		if n > 0 && !math.IsInf(n, 0) {
			if m := int(math.Round(n)); m > 0 {
				return model.Some(m)
			}
		}
		return model.Opt[int]{}
	case string:
		if isNullString(n) {
			return model.None[int]()
		}
		if m, ok := datemath.ParseDurationToMinutes(n); ok {
			return model.Some(m)
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && f > 0 {
			if m := int(math.Round(f)); m > 0 {
				return model.Some(m)
			}
		}
	}
	return model.Opt[int]{}
}
