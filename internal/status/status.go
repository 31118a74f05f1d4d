// Package status classifies completed sessions into attendance labels.
package status

import (
	"time"

	"github.com/ayoisaiah/attend/internal/models"
)

const (
	// FullDayThreshold is the minimum session length labelled FullDay.
	FullDayThreshold = 5 * time.Hour
	// HalfDayThreshold is the minimum session length labelled HalfDay.
	HalfDayThreshold = 2*time.Hour + 30*time.Minute
)

// Calendar colours for each status.
const (
	ColorFullDay = "#4CAF50"
	ColorHalfDay = "#FFC107"
	ColorLeave   = "#F44336"
	ColorUnknown = "#DDD"
)

// Classify maps the duration of a completed session to its status. Lower
// bounds are inclusive and no rounding is applied.
func Classify(d time.Duration) models.Status {
	switch {
	case d >= FullDayThreshold:
		return models.FullDay
	case d >= HalfDayThreshold:
		return models.HalfDay
	default:
		return models.Leave
	}
}

// ClassifySeconds is Classify for a duration expressed in seconds.
func ClassifySeconds(secs float64) models.Status {
	switch {
	case secs >= FullDayThreshold.Seconds():
		return models.FullDay
	case secs >= HalfDayThreshold.Seconds():
		return models.HalfDay
	default:
		return models.Leave
	}
}

// Palette assigns a colour to each status.
type Palette struct {
	FullDay string
	HalfDay string
	Leave   string
}

// DefaultPalette holds the standard calendar colours.
var DefaultPalette = Palette{
	FullDay: ColorFullDay,
	HalfDay: ColorHalfDay,
	Leave:   ColorLeave,
}

// Color returns the colour of s in p. Empty entries fall back to the
// default palette.
func (p Palette) Color(s models.Status) string {
	var c string

	switch s {
	case models.FullDay:
		c = p.FullDay
	case models.HalfDay:
		c = p.HalfDay
	case models.Leave:
		c = p.Leave
	default:
		return ColorUnknown
	}

	if c == "" {
		return Color(s)
	}

	return c
}

// Color returns the calendar colour of s.
func Color(s models.Status) string {
	switch s {
	case models.FullDay:
		return ColorFullDay
	case models.HalfDay:
		return ColorHalfDay
	case models.Leave:
		return ColorLeave
	default:
		return ColorUnknown
	}
}
