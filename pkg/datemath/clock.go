package datemath

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	amRe    = regexp.MustCompile(`午前(\d{1,2})時(?:(\d{1,2})分|(半))?`)
	pmRe    = regexp.MustCompile(`午後(\d{1,2})時(?:(\d{1,2})分|(半))?`)
	colonRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	// The optional 間 group lets "2時間" be recognized and skipped.
	hourRe = regexp.MustCompile(`(\d{1,2})時(間)?(?:(\d{1,2})分|(半))?`)

	clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
	splitRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:[T ](\d{2}:\d{2}))?`)
)

var slotClock = map[TimeSlot]string{
	SlotMorning:     "07:00",
	SlotNoon:        "12:00",
	SlotAfternoon:   "15:00",
	SlotEvening:     "18:00",
	SlotUnspecified: "09:00",
}

// ParseTimeFromInput extracts the first clock time from free text:
// "午前10時", "午後3時半", "14:30", "9時15分". Hour counts ("2時間") are skipped.
func ParseTimeFromInput(text string) (ClockTime, bool) {
	s := normalizeInput(text)
	if s == "" {
		return ClockTime{}, false
	}

	if m := amRe.FindStringSubmatch(s); m != nil {
		return clockFrom(m[1], m[2], m[3] != "", false)
	}
	if m := pmRe.FindStringSubmatch(s); m != nil {
		return clockFrom(m[1], m[2], m[3] != "", true)
	}
	if m := colonRe.FindStringSubmatch(s); m != nil {
		return clockFrom(m[1], m[2], false, false)
	}
	for _, m := range hourRe.FindAllStringSubmatch(s, -1) {
		if m[2] != "" {
			continue
		}
		return clockFrom(m[1], m[3], m[4] != "", false)
	}

	return ClockTime{}, false
}

func clockFrom(hourStr, minuteStr string, half, pm bool) (ClockTime, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return ClockTime{}, false
	}
	minute := 0
	if minuteStr != "" {
		if minute, err = strconv.Atoi(minuteStr); err != nil {
			return ClockTime{}, false
		}
	}
	if half {
		minute = 30
	}
	if pm && hour != 12 {
		hour += 12
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: hour, Minute: minute}, true
}

// GetTimeFromSlot maps a slot name to its clock time (morning → 07:00).
func GetTimeFromSlot(slot string) (string, bool) {
	v, ok := slotClock[TimeSlot(strings.ToLower(strings.TrimSpace(slot)))]
	return v, ok
}

// IsTimeSlot reports whether s is one of the four named scheduling slots.
func IsTimeSlot(s string) bool {
	switch TimeSlot(s) {
	case SlotMorning, SlotNoon, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// IsClock reports whether s is a valid HH:mm clock string.
func IsClock(s string) bool {
	return clockRe.MatchString(s)
}

// IsDate reports whether s is a valid YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, err := time.ParseInLocation(DateLayout, s, JST)
	return err == nil
}

// CombineDateAndTime joins a date with a clock time or slot name into a
// zoned timestamp: "2026-10-16" + "afternoon" → "2026-10-16T15:00:00+09:00".
func CombineDateAndTime(date, timeOrSlot string) (string, bool) {
	if !IsDate(date) {
		return "", false
	}
	clock, ok := GetTimeFromSlot(timeOrSlot)
	if !ok {
		clock = strings.TrimSpace(timeOrSlot)
		if !IsClock(clock) {
			return "", false
		}
	}
	return date + "T" + clock + ":00+09:00", true
}

// SplitDateTime splits a zoned timestamp into its JST date and HH:mm parts.
// A value with only a date yields an empty Time.
func SplitDateTime(iso string) (DateTimeParts, bool) {
	s := strings.TrimSpace(iso)
	if s == "" {
		return DateTimeParts{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.In(JST)
		return DateTimeParts{Date: t.Format(DateLayout), Time: t.Format(ClockLayout)}, true
	}
	m := splitRe.FindStringSubmatch(s)
	if m == nil || !IsDate(m[1]) {
		return DateTimeParts{}, false
	}
	return DateTimeParts{Date: m[1], Time: m[2]}, true
}

// SplitScheduledAt is SplitDateTime for persisted scheduledAt values, where an
// empty value means "not scheduled" rather than an error.
func SplitScheduledAt(scheduledAt string) DateTimeParts {
	parts, _ := SplitDateTime(scheduledAt)
	return parts
}
