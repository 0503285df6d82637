package datemath

import "time"

var weekdayJA = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// Anchors are the reference dates given to the model so relative phrases in
// user text resolve against the same clock the fallback parser uses.
type Anchors struct {
	Now              string // zoned timestamp
	Today            string
	Weekday          string // Japanese weekday, e.g. "木"
	Tomorrow         string
	DayAfterTomorrow string
	ThisWeekEnd      string // Sunday of the current week
	NextWeekStart    string // next Monday
	MonthEnd         string
}

// BuildAnchors computes the anchors for now in JST.
func BuildAnchors(now time.Time) Anchors {
	now = now.In(JST)
	day := StartOfDay(now)
	return Anchors{
		Now:              ToZonedISOString(now),
		Today:            day.Format(DateLayout),
		Weekday:          weekdayJA[day.Weekday()],
		Tomorrow:         day.AddDate(0, 0, 1).Format(DateLayout),
		DayAfterTomorrow: day.AddDate(0, 0, 2).Format(DateLayout),
		ThisWeekEnd:      thisSunday(now).Date.Format(DateLayout),
		NextWeekStart:    nextMonday(now).Date.Format(DateLayout),
		MonthEnd:         endOfMonth(now).Date.Format(DateLayout),
	}
}
