// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

const (
	minutesInAnHour = 60
	secondsInAMin   = 60

	// DayLayout is the layout of calendar keys.
	DayLayout = "2006-01-02"

	// keyLayout is a fixed-width RFC3339 layout so that keys sort
	// chronologically byte by byte.
	keyLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

var errParsingDate = errors.New(
	"the specified date format must be: YYYY-MM-DD or a relative expression like '3 days ago'",
)

// totalTimeRegex matches accumulated totals such as "5 hrs 1 mins",
// "1 hr 59 min" or "3 hrs".
var totalTimeRegex = regexp.MustCompile(
	`^\s*(\d+)\s*hrs?(?:\s*(\d+)\s*mins?)?\s*$`,
)

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = val / minutesInAnHour
	mins = val % minutesInAnHour

	return
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the last nanosecond of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		int(time.Second-time.Nanosecond),
		t.Location(),
	)
}

// DayKey returns the YYYY-MM-DD date of t in loc. A nil loc keeps the
// location of t.
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	return t.Format(DayLayout)
}

// FormatElapsed formats d as HH:MM:SS. Hours are not capped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int64(d / time.Second)

	hrs := secs / (minutesInAnHour * secondsInAMin)
	mins := (secs / secondsInAMin) % minutesInAnHour
	s := secs % secondsInAMin

	return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, s)
}

// FormatTotal formats an accumulated total as "N hrs M mins". Seconds are
// truncated.
func FormatTotal(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hrs, mins := MinsToHoursAndMins(int(d / time.Minute))

	return fmt.Sprintf("%d hrs %d mins", hrs, mins)
}

// ParseTotal parses a total in the FormatTotal format. Minute values of 60 or
// more are carried into hours.
func ParseTotal(s string) (time.Duration, error) {
	m := totalTimeRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid total time: %q", s)
	}

	hrs, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}

	var mins int

	if m[2] != "" {
		mins, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, err
		}
	}

	return time.Duration(hrs)*time.Hour + time.Duration(mins)*time.Minute, nil
}

// FromStr parses a date string. It accepts YYYY-MM-DD as well as natural
// language expressions ("yesterday", "last monday", "2 weeks ago") relative to
// now.
func FromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errParsingDate
	}

	if t, err := time.ParseInLocation(DayLayout, s, now.Location()); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, errParsingDate
	}

	return dt.Time.In(now.Location()), nil
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}
