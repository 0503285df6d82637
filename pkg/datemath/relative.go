package datemath

import (
	"strings"
	"time"
)

// Phrases that explicitly mean "no date".
var noDateKeywords = []string{
	"期限なし", "期限無し", "未定", "なし", "無し",
	"no deadline", "undecided", "none",
}

// Suffixes that negate the date they follow ("明日じゃない").
var negationMarkers = []string{
	"じゃない", "ではない", "以外", "not ",
}

type relativeRule struct {
	keywords []string
	resolve  func(base time.Time) RelativeDate
}

// Order matters: the first rule with a matching keyword wins.
var relativeRules = []relativeRule{
	{keywords: []string{"明後日", "あさって", "day after tomorrow"}, resolve: offsetDays(2)},
	{keywords: []string{"今日", "本日", "きょう", "today"}, resolve: offsetDays(0)},
	{keywords: []string{"明日", "あした", "tomorrow"}, resolve: offsetDays(1)},
	{keywords: []string{"昨日", "きのう", "yesterday"}, resolve: offsetDays(-1)},
	{keywords: []string{"今週", "this week"}, resolve: thisSunday},
	{keywords: []string{"来週", "next week"}, resolve: nextMonday},
	{keywords: []string{"今月", "this month"}, resolve: endOfMonth},
	{keywords: []string{"来月", "next month"}, resolve: firstOfNextMonth},
}

// ParseRelativeDate resolves a relative date phrase against base.
// It returns false for explicit "no date" phrases, negated phrases and anything
// outside the vocabulary.
func ParseRelativeDate(phrase string, base time.Time) (RelativeDate, bool) {
	s := strings.ToLower(normalizeInput(phrase))
	if s == "" {
		return RelativeDate{}, false
	}

	for _, kw := range noDateKeywords {
		if strings.Contains(s, kw) {
			return RelativeDate{}, false
		}
	}
	for _, neg := range negationMarkers {
		if strings.Contains(s, neg) {
			return RelativeDate{}, false
		}
	}

	for _, rule := range relativeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.resolve(base), true
			}
		}
	}

	return RelativeDate{}, false
}

// IsNoDatePhrase reports whether phrase explicitly means "no date"
// ("期限なし", "未定").
func IsNoDatePhrase(phrase string) bool {
	s := strings.ToLower(normalizeInput(phrase))
	if s == "" {
		return false
	}
	for _, kw := range noDateKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// StartOfDay returns midnight JST of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.In(JST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, JST)
}

func offsetDays(n int) func(time.Time) RelativeDate {
	return func(base time.Time) RelativeDate {
		return RelativeDate{Date: StartOfDay(base).AddDate(0, 0, n)}
	}
}

// thisSunday resolves to the Sunday closing the current week (today when base is a Sunday).
func thisSunday(base time.Time) RelativeDate {
	day := StartOfDay(base)
	days := (7 - int(day.Weekday())) % 7
	return RelativeDate{Date: day.AddDate(0, 0, days), IsEndOfDay: true}
}

// nextMonday resolves to the first Monday strictly after base.
func nextMonday(base time.Time) RelativeDate {
	day := StartOfDay(base)
	days := (8 - int(day.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return RelativeDate{Date: day.AddDate(0, 0, days)}
}

func endOfMonth(base time.Time) RelativeDate {
	day := StartOfDay(base)
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, JST)
	return RelativeDate{Date: first.AddDate(0, 1, -1), IsEndOfDay: true}
}

func firstOfNextMonth(base time.Time) RelativeDate {
	day := StartOfDay(base)
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, JST)
	return RelativeDate{Date: first.AddDate(0, 1, 0)}
}
