package datemath

import (
	"fmt"
	"time"
)

// JST is the fixed +09:00 zone every absolute timestamp is normalized to.
var JST = time.FixedZone("JST", 9*60*60)

// Layouts.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
	ZonedLayout = "2006-01-02T15:04:05-07:00"
)

// TimeSlot is a coarse time-of-day name accepted in place of a clock time.
type TimeSlot string

const (
	SlotMorning     TimeSlot = "morning"
	SlotNoon        TimeSlot = "noon"
	SlotAfternoon   TimeSlot = "afternoon"
	SlotEvening     TimeSlot = "evening"
	SlotUnspecified TimeSlot = "unspecified"
)

// RelativeDate is the result of resolving a relative date phrase.
type RelativeDate struct {
	Date       time.Time // midnight JST of the resolved day
	IsEndOfDay bool      // the phrase means "by the end of" that day
}

// ClockTime is an hour/minute pair on a 24h clock.
type ClockTime struct {
	Hour   int
	Minute int
}

// String formats the clock time as HH:mm.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DateTimeParts is a zoned timestamp split into its date and clock parts.
// Time is empty when the source carried no time component.
type DateTimeParts struct {
	Date string
	Time string
}
