package datemath

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	bareNumberRe = regexp.MustCompile(`^\d+$`)
	hoursRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)(?:時間|hours|hour|hrs|hr|h)(半)?`)
	minutesRe    = regexp.MustCompile(`(\d+)(?:分|minutes|minute|mins|min|m)`)
)

// ParseDurationToMinutes converts a duration phrase ("1時間半", "90分", "45")
// into whole minutes. A bare number is read as minutes. Zero, negative and
// unrecognized inputs return false.
func ParseDurationToMinutes(input string) (int, bool) {
	s := strings.ToLower(normalizeInput(input))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || strings.HasPrefix(s, "-") || strings.Contains(s, "マイナス") {
		return 0, false
	}

	if bareNumberRe.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}

	var total float64
	matched := false

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		h, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		total += h * 60
		if m[2] != "" {
			total += 30
		}
		matched = true
	}

	if m := minutesRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		total += float64(n)
		matched = true
	}

	minutes := int(math.Round(total))
	if !matched || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}
