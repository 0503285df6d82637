package resolver

import (
	"time"

	"task-intake-assistant/internal/model"
	"task-intake-assistant/pkg/datemath"
)

// valueFunc returns the field value for a canned option; nil means none.
type valueFunc func(now time.Time) any

func fixed(v any) valueFunc {
	return func(time.Time) any { return v }
}

func relativeDate(phrase string) valueFunc {
	return func(now time.Time) any {
		rel, ok := datemath.ParseRelativeDate(phrase, now)
		if !ok {
			return nil
		}
		return rel.Date.Format(datemath.DateLayout)
	}
}

func relativeDeadline(phrase string) valueFunc {
	return func(now time.Time) any {
		rel, ok := datemath.ParseRelativeDate(phrase, now)
		if !ok {
			return nil
		}
		iso, _ := datemath.CombineDateAndTime(rel.Date.Format(datemath.DateLayout), "23:59")
		return iso
	}
}

// Canned option label → value, per field. Labels match slot.Prompt options.
var cannedTables = map[model.Field]map[string]valueFunc{
	model.FieldCategory: {
		"買い物": fixed(model.CategoryShopping),
		"返信":  fixed(model.CategoryReply),
		"仕事":  fixed(model.CategoryWork),
		"個人":  fixed(model.CategoryPersonal),
		"その他": fixed(model.CategoryOther),
	},
	model.FieldDeadline: {
		"今日":   relativeDeadline("今日"),
		"明日":   relativeDeadline("明日"),
		"今週中":  relativeDeadline("今週"),
		"来週":   relativeDeadline("来週"),
		"期限なし": fixed(nil),
	},
	model.FieldScheduledDate: {
		"今日":  relativeDate("今日"),
		"明日":  relativeDate("明日"),
		"明後日": relativeDate("明後日"),
		"来週":  relativeDate("来週"),
		"未定":  fixed(nil),
	},
	model.FieldScheduledTime: {
		"朝":  fixed(string(datemath.SlotMorning)),
		"昼":  fixed(string(datemath.SlotNoon)),
		"午後": fixed(string(datemath.SlotAfternoon)),
		"夜":  fixed(string(datemath.SlotEvening)),
		"未定": fixed(nil),
	},
	model.FieldDurationMinutes: {
		"15分":   fixed(15),
		"30分":   fixed(30),
		"1時間":   fixed(60),
		"2時間":   fixed(120),
		"わからない": fixed(nil),
	},
}
