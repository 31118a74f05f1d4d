package stats_test

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/internal/testutil"
	"github.com/ayoisaiah/attend/stats"
)

const emp = "emp-1"

func day(n int, hour int) time.Time {
	return time.Date(2025, 3, 3+n, hour, 0, 0, 0, time.UTC)
}

// session returns the check-in and check-out events of a session that starts
// at 08:00 on day n.
func session(n int, d time.Duration) []models.AttendanceEvent {
	start := day(n, 8)
	end := start.Add(d)

	return []models.AttendanceEvent{
		{EmployeeID: emp, Kind: models.CheckIn, OccurredAt: start},
		{
			EmployeeID: emp,
			Kind:       models.CheckOut,
			OccurredAt: end,
			Duration:   d,
			Status:     status.Classify(d),
		},
	}
}

func seededLog(sessions ...[]models.AttendanceEvent) *testutil.MemoryLog {
	l := testutil.NewMemoryLog(day(-1, 0))

	for _, s := range sessions {
		l.Seed(s...)
	}

	return l
}

type reportGolden struct {
	t      *testing.T
	report *stats.Report
}

func (g reportGolden) Output() ([]byte, string) {
	b, err := json.MarshalIndent(g.report, "", "  ")
	require.NoError(g.t, err)

	return b, "report"
}

func TestComputeReport(t *testing.T) {
	l := seededLog(
		session(0, 5*time.Hour+30*time.Minute),
		session(1, 2*time.Hour+45*time.Minute),
		session(2, time.Hour),
		session(3, 6*time.Hour+45*time.Minute),
	)

	report, err := stats.Compute(context.Background(), l, emp, stats.Range{}, time.UTC)
	require.NoError(t, err)

	want := models.PerformanceSummary{
		TotalHours:   16,
		AverageHours: 4,
		FullDays:     2,
		HalfDays:     1,
		Leaves:       1,
		Sessions:     4,
	}

	if diff := cmp.Diff(want, report.Summary); diff != "" {
		t.Fatalf("Compute() summary mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "16.00", report.Summary.TotalHoursString())
	assert.Equal(t, status.ColorLeave, report.TrendColor)

	testutil.CompareGoldenFile(t, reportGolden{t: t, report: report})
}

func TestComputeRange(t *testing.T) {
	l := seededLog(
		session(0, 6*time.Hour),
		session(1, 3*time.Hour),
		session(2, time.Hour),
	)

	report, err := stats.Compute(
		context.Background(),
		l,
		emp,
		stats.Range{From: day(1, 0), To: day(1, 23)},
		time.UTC,
	)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Sessions)
	assert.Equal(t, 1, report.Summary.HalfDays)
	assert.Equal(t, 3.0, report.Summary.TotalHours)
	assert.Len(t, report.Calendar, 1)
	assert.Contains(t, report.Calendar, "2025-03-04")
}

func TestComputeErrors(t *testing.T) {
	l := seededLog()

	_, err := stats.Compute(context.Background(), l, "", stats.Range{}, time.UTC)
	assert.ErrorIs(t, err, apperr.ErrMissingIdentity)

	l.FailRead = true

	_, err = stats.Compute(context.Background(), l, emp, stats.Range{}, time.UTC)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}

func TestComputeEmpty(t *testing.T) {
	report, err := stats.Compute(context.Background(), seededLog(), emp, stats.Range{}, time.UTC)
	require.NoError(t, err)

	assert.Zero(t, report.Summary)
	assert.Empty(t, report.Calendar)
	assert.Empty(t, report.DailyHours)
	assert.Equal(t, status.ColorLeave, report.TrendColor)
}

func TestAggregatorCountsMatchEnumeration(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	a := stats.NewAggregator(time.UTC)

	var (
		want  = map[models.Status]int{}
		total time.Duration
	)

	for i := 0; i < 500; i++ {
		d := time.Duration(r.Intn(8*3600)) * time.Second
		events := session(i, d)

		for _, ev := range events {
			a.Add(ev)
		}

		want[events[1].Status]++
		total += d
	}

	sum := a.Summary()

	assert.Equal(t, want[models.FullDay], sum.FullDays)
	assert.Equal(t, want[models.HalfDay], sum.HalfDays)
	assert.Equal(t, want[models.Leave], sum.Leaves)
	assert.Equal(t, 500, sum.FullDays+sum.HalfDays+sum.Leaves)
	assert.Equal(t, 500, sum.Sessions)
	assert.InDelta(t, total.Hours(), sum.TotalHours, 1e-9)
}

func TestAggregatorLastCheckOutOfDayWins(t *testing.T) {
	a := stats.NewAggregator(time.UTC)

	a.Add(models.AttendanceEvent{
		Kind:       models.CheckOut,
		OccurredAt: day(0, 11),
		Duration:   3 * time.Hour,
		Status:     models.HalfDay,
	})
	a.Add(models.AttendanceEvent{
		Kind:       models.CheckOut,
		OccurredAt: day(0, 17),
		Duration:   time.Hour,
		Status:     models.Leave,
	})

	cal := a.Calendar()
	require.Len(t, cal, 1)

	want := models.CalendarMark{
		Status:   models.Leave,
		Color:    status.ColorLeave,
		Selected: true,
	}

	if diff := cmp.Diff(want, cal["2025-03-03"]); diff != "" {
		t.Fatalf("Calendar() mismatch (-want +got):\n%s", diff)
	}

	// both sessions still count
	assert.Equal(t, 2, a.Summary().Sessions)
}

func TestAggregatorLegacyEvents(t *testing.T) {
	a := stats.NewAggregator(time.UTC)

	// written without a duration or a status
	a.Add(models.AttendanceEvent{
		Kind:            models.CheckOut,
		OccurredAt:      day(0, 17),
		TotalTime:       "5 hrs 1 mins",
		DurationMissing: true,
	})

	// a status outside the known labels is derived from the duration
	a.Add(models.AttendanceEvent{
		Kind:       models.CheckOut,
		OccurredAt: day(1, 17),
		Duration:   2*time.Hour + 30*time.Minute,
		Status:     "Remote",
	})

	sum := a.Summary()

	assert.Equal(t, 1, sum.FullDays)
	assert.Equal(t, 1, sum.HalfDays)
	assert.InDelta(t, 5.0+1.0/60+2.5, sum.TotalHours, 1e-9)
}

func TestAggregatorSubSecondSession(t *testing.T) {
	a := stats.NewAggregator(time.UTC)

	first := 5*time.Hour + time.Minute

	a.Add(models.AttendanceEvent{Kind: models.CheckIn, OccurredAt: day(0, 9)})
	a.Add(models.AttendanceEvent{
		Kind:       models.CheckOut,
		OccurredAt: day(0, 9).Add(first),
		Duration:   first,
		Status:     status.Classify(first),
		TotalTime:  "5 hrs 1 mins",
	})

	// checked out half a second after checking in, so the recorded duration
	// truncates to zero while the total text repeats the day's total
	a.Add(models.AttendanceEvent{Kind: models.CheckIn, OccurredAt: day(0, 15)})
	a.Add(models.AttendanceEvent{
		Kind:       models.CheckOut,
		OccurredAt: day(0, 15).Add(500 * time.Millisecond),
		Duration:   0,
		Status:     status.Classify(0),
		TotalTime:  "5 hrs 1 mins",
	})

	sum := a.Summary()

	assert.Equal(t, 2, sum.Sessions)
	assert.InDelta(t, 5.0+1.0/60, sum.TotalHours, 1e-9)
}

func TestAggregatorUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	a := stats.NewAggregator(loc)

	a.Add(models.AttendanceEvent{
		Kind:       models.CheckOut,
		OccurredAt: time.Date(2025, 3, 3, 22, 30, 0, 0, time.UTC),
		Duration:   time.Hour,
	})

	assert.Contains(t, a.Calendar(), "2025-03-04")
}

func TestRecolor(t *testing.T) {
	a := stats.NewAggregator(time.UTC)

	for _, ev := range session(0, 6*time.Hour) {
		a.Add(ev)
	}

	report := a.Report(emp, stats.Range{})
	report.Recolor(status.Palette{FullDay: "#00FF00"})

	assert.Equal(t, "#00FF00", report.Calendar["2025-03-03"].Color)
	assert.Equal(t, "#00FF00", report.TrendColor)
}
