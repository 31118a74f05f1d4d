// Package models defines the records exchanged between the attendance state
// machine, the event log, the session cache and the aggregator.
package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Kind is the type of an attendance event.
type Kind string

const (
	CheckIn  Kind = "Check-In"
	CheckOut Kind = "Check-Out"
)

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	return k == CheckIn || k == CheckOut
}

// Status is the attendance label derived from a completed session.
type Status string

const (
	FullDay Status = "Full Day"
	HalfDay Status = "Half Day"
	Leave   Status = "Leave"
)

// Valid reports whether s is one of the three known labels.
func (s Status) Valid() bool {
	switch s {
	case FullDay, HalfDay, Leave:
		return true
	}

	return false
}

// AttendanceEvent is a single immutable entry in an employee's event log.
type AttendanceEvent struct {
	// OccurredAt is the reading of the clock that produced the event.
	OccurredAt time.Time `json:"time"`
	// RecordedAt is assigned by the store when the append is acknowledged.
	RecordedAt time.Time     `json:"timestamp"`
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	Kind       Kind          `json:"kind"`
	Status     Status        `json:"status,omitempty"`
	TotalTime  string        `json:"totalTime,omitempty"`
	Duration   time.Duration `json:"-"`
	// DurationMissing is set on check-outs written before durations were
	// recorded. Their Duration is zero and only TotalTime is known.
	DurationMissing bool `json:"-"`
}

// MarshalJSON encodes the duration of a check-out as whole seconds.
func (e AttendanceEvent) MarshalJSON() ([]byte, error) {
	type plain AttendanceEvent

	v := struct {
		plain
		DurationSecs *int64 `json:"duration,omitempty"`
	}{plain: plain(e)}

	if e.Kind == CheckOut && !e.DurationMissing {
		secs := int64(e.Duration / time.Second)
		v.DurationSecs = &secs
	}

	return json.Marshal(v)
}

// UnmarshalJSON decodes an event written by MarshalJSON.
func (e *AttendanceEvent) UnmarshalJSON(b []byte) error {
	type plain AttendanceEvent

	v := struct {
		*plain
		DurationSecs *int64 `json:"duration,omitempty"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	if v.DurationSecs != nil {
		e.Duration = time.Duration(*v.DurationSecs) * time.Second
	}

	e.DurationMissing = e.Kind == CheckOut && v.DurationSecs == nil

	return nil
}

// CacheEntry is the locally persisted state of an employee's session.
type CacheEntry struct {
	CheckInAt        time.Time
	AccumulatedTotal time.Duration
	// TotalDay is the YYYY-MM-DD date AccumulatedTotal belongs to.
	TotalDay string
}

// HasCheckIn reports whether the entry records an open session.
func (c CacheEntry) HasCheckIn() bool {
	return !c.CheckInAt.IsZero()
}

// PerformanceSummary aggregates all completed sessions of an employee.
type PerformanceSummary struct {
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
	FullDays     int     `json:"full_days"`
	HalfDays     int     `json:"half_days"`
	Leaves       int     `json:"leaves"`
	Sessions     int     `json:"sessions"`
}

// CalendarMark is the marking of a single calendar date.
type CalendarMark struct {
	Status   Status `json:"status"`
	Color    string `json:"selectedColor"`
	Selected bool   `json:"selected"`
}

// Calendar maps YYYY-MM-DD dates to their marking.
type Calendar map[string]CalendarMark

// TotalHoursString formats TotalHours rounded to two decimal places.
func (p PerformanceSummary) TotalHoursString() string {
	return strconv.FormatFloat(p.TotalHours, 'f', 2, 64)
}
