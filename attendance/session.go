// Package attendance implements the check-in/check-out state machine of an
// employee's work session.
package attendance

import (
	"time"

	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/timeutil"
)

// State is the position of an employee in the check-in cycle.
type State int

const (
	Idle State = iota
	CheckedIn
)

func (s State) String() string {
	if s == CheckedIn {
		return "checked in"
	}

	return "idle"
}

// MarshalText encodes the state as its String form.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is the in-memory state of a single employee.
type Session struct {
	// LastCheckOut is the most recent check-out known to the machine, if any.
	LastCheckOut *models.AttendanceEvent `json:"last_check_out,omitempty"`
	CheckInAt    time.Time               `json:"check_in_at,omitzero"`
	EmployeeID   string                  `json:"employee_id"`
	// TotalDay is the YYYY-MM-DD date Total was accumulated on.
	TotalDay string        `json:"total_day,omitempty"`
	State    State         `json:"state"`
	Total    time.Duration `json:"-"`
	// Verified reports whether the state was confirmed against the event
	// log. It is false when the log could not be read and the session was
	// derived from the local cache alone.
	Verified bool `json:"verified"`
}

// Elapsed returns the time spent in the open session at now. It is zero when
// the employee is idle or when now precedes the check-in.
func (s Session) Elapsed(now time.Time) time.Duration {
	if s.State != CheckedIn {
		return 0
	}

	d := now.Sub(s.CheckInAt)
	if d < 0 {
		return 0
	}

	return d
}

// TotalOn returns the accumulated total of completed sessions if it belongs
// to the day of now in loc.
func (s Session) TotalOn(now time.Time, loc *time.Location) time.Duration {
	if s.TotalDay != timeutil.DayKey(now, loc) {
		return 0
	}

	return s.Total
}
