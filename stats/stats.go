// Package stats derives attendance statistics from an employee's event log
package stats

import (
	"context"
	"time"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/internal/timeutil"
	"github.com/ayoisaiah/attend/store"
)

const noSessionsMsg = "No completed sessions found for the specified time range"

// Range bounds a report by the time events were recorded. A zero bound is
// open.
type Range struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// SessionHours is a completed session in the hours series of a report.
type SessionHours struct {
	Date   string        `json:"date"`
	Status models.Status `json:"status"`
	Hours  float64       `json:"hours"`
}

// Report is the performance feed of one employee.
type Report struct {
	Employee   string                    `json:"employee"`
	Range      Range                     `json:"range"`
	Summary    models.PerformanceSummary `json:"summary"`
	Calendar   models.Calendar           `json:"calendar"`
	DailyHours []SessionHours            `json:"daily_hours"`
	TrendColor string                    `json:"trend_color"`
}

// Aggregator folds check-out events into a summary and a calendar.
type Aggregator struct {
	loc      *time.Location
	calendar models.Calendar
	daily    []SessionHours
	summary  models.PerformanceSummary
	total    time.Duration
}

// NewAggregator returns an empty Aggregator that assigns events to calendar
// days in loc.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}

	return &Aggregator{
		loc:      loc,
		calendar: make(models.Calendar),
		daily:    []SessionHours{},
	}
}

// sessionDuration returns the length of the session closed by ev. Events
// written before durations were recorded only carry the accumulated total
// text. A recorded zero duration is kept as is.
func sessionDuration(ev models.AttendanceEvent) time.Duration {
	if !ev.DurationMissing || ev.TotalTime == "" {
		return ev.Duration
	}

	d, err := timeutil.ParseTotal(ev.TotalTime)
	if err != nil {
		return 0
	}

	return d
}

// Add folds ev into the aggregate. Check-in events are ignored.
func (a *Aggregator) Add(ev models.AttendanceEvent) {
	if ev.Kind != models.CheckOut {
		return
	}

	d := sessionDuration(ev)

	s := ev.Status
	if !s.Valid() {
		s = status.Classify(d)
	}

	a.total += d
	a.summary.Sessions++

	switch s {
	case models.FullDay:
		a.summary.FullDays++
	case models.HalfDay:
		a.summary.HalfDays++
	case models.Leave:
		a.summary.Leaves++
	}

	day := timeutil.DayKey(ev.OccurredAt, a.loc)

	a.calendar[day] = models.CalendarMark{
		Status:   s,
		Color:    status.Color(s),
		Selected: true,
	}

	a.daily = append(a.daily, SessionHours{
		Date:   day,
		Status: s,
		Hours:  d.Hours(),
	})
}

// Summary returns the totals of every event added so far.
func (a *Aggregator) Summary() models.PerformanceSummary {
	sum := a.summary
	sum.TotalHours = a.total.Hours()

	if sum.Sessions > 0 {
		sum.AverageHours = sum.TotalHours / float64(sum.Sessions)
	}

	return sum
}

// Calendar returns the status of each day seen so far. The last check-out of
// a day determines its status.
func (a *Aggregator) Calendar() models.Calendar {
	cal := make(models.Calendar, len(a.calendar))
	for k, v := range a.calendar {
		cal[k] = v
	}

	return cal
}

// Report assembles the aggregate into a Report.
func (a *Aggregator) Report(employeeID string, r Range) *Report {
	sum := a.Summary()

	return &Report{
		Employee:   employeeID,
		Range:      r,
		Summary:    sum,
		Calendar:   a.Calendar(),
		DailyHours: append([]SessionHours{}, a.daily...),
		TrendColor: trendColor(sum, status.DefaultPalette),
	}
}

// trendColor is the full day colour when sessions average at least a full
// day, and the leave colour otherwise.
func trendColor(sum models.PerformanceSummary, p status.Palette) string {
	if sum.Sessions > 0 && sum.AverageHours >= status.FullDayThreshold.Hours() {
		return p.Color(models.FullDay)
	}

	return p.Color(models.Leave)
}

// Recolor applies p to the calendar and the trend colour.
func (r *Report) Recolor(p status.Palette) {
	for day, mark := range r.Calendar {
		mark.Color = p.Color(mark.Status)
		r.Calendar[day] = mark
	}

	r.TrendColor = trendColor(r.Summary, p)
}

// Compute streams the events of an employee recorded within r through an
// Aggregator.
func Compute(
	ctx context.Context,
	log store.EventLog,
	employeeID string,
	r Range,
	loc *time.Location,
) (*Report, error) {
	if employeeID == "" {
		return nil, apperr.ErrMissingIdentity
	}

	a := NewAggregator(loc)

	err := log.Walk(ctx, employeeID, r.From, r.To, func(ev models.AttendanceEvent) error {
		a.Add(ev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return a.Report(employeeID, r), nil
}
