package datemath

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoRe     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`)
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ToZonedISOString formats t in JST as YYYY-MM-DDTHH:mm:ss+09:00.
func ToZonedISOString(t time.Time) string {
	return t.In(JST).Format(ZonedLayout)
}

// NormalizeDateTime turns a date/time phrase into a JST zoned timestamp.
// ISO input passes through (an offset-less value is read as JST). Relative
// phrases are resolved against base; the clock comes from the phrase when it
// has one, 23:59 for end-of-period phrases, 09:00 otherwise.
func NormalizeDateTime(input string, base time.Time) (string, bool) {
	s := normalizeInput(input)
	if s == "" {
		return "", false
	}

	if iso, ok, matched := normalizeISO(s); matched {
		return iso, ok
	}

	rel, ok := ParseRelativeDate(s, base)
	if !ok {
		return "", false
	}

	hour, minute := 9, 0
	if ct, ok := ParseTimeFromInput(s); ok {
		hour, minute = ct.Hour, ct.Minute
		if isAfternoon(s) && hour < 12 {
			hour += 12
		}
	} else if rel.IsEndOfDay {
		hour, minute = 23, 59
	}

	d := rel.Date
	return ToZonedISOString(time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, JST)), true
}

// pm only counts as a standalone marker, not inside a word.
var afternoonRe = regexp.MustCompile(`(?i)午後|afternoon|(?:^|[^a-z])p\.?m\.?(?:$|[^a-z])`)

// isAfternoon reports whether s carries an afternoon marker.
func isAfternoon(s string) bool {
	return afternoonRe.MatchString(s)
}

// normalizeISO reports matched=true when s looks like an ISO date or
// timestamp, in which case ok tells whether it was a valid one.
func normalizeISO(s string) (iso string, ok, matched bool) {
	if isoDateRe.MatchString(s) {
		if !IsDate(s) {
			return "", false, true
		}
		return s + "T09:00:00+09:00", true, true
	}

	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return "", false, false
	}

	if m[5] != "" {
		t, err := time.Parse(time.RFC3339, strings.Replace(s, " ", "T", 1))
		if err != nil {
			return "", false, true
		}
		if m[5] == "Z" {
			return ToZonedISOString(t), true, true
		}
		return t.Format(ZonedLayout), true, true
	}

	sec := m[4]
	if sec == "" {
		sec = "00"
	}
	local := m[1] + "T" + m[2] + ":" + m[3] + ":" + sec
	t, err := time.ParseInLocation("2006-01-02T15:04:05", local, JST)
	if err != nil {
		return "", false, true
	}
	return ToZonedISOString(t), true, true
}

// EndOfDay re-stamps a zoned timestamp to 23:59 of the same JST day.
func EndOfDay(iso string) (string, bool) {
	parts, ok := SplitDateTime(iso)
	if !ok {
		return "", false
	}
	return CombineDateAndTime(parts.Date, "23:59")
}
