package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/attend/attendance"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/stats"
)

func TestFirstNonEmptyString(t *testing.T) {
	assert.Equal(t, "vim", firstNonEmptyString("", "vim", "nano"))
	assert.Empty(t, firstNonEmptyString("", ""))
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		since string
		until string
		all   bool
		want  stats.Range
	}{
		{
			name: "defaults to the last 7 days",
			want: stats.Range{From: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:  "explicit bounds cover whole days",
			since: "2025-03-05",
			until: "2025-03-07",
			want: stats.Range{
				From: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 3, 7, 23, 59, 59, int(time.Second-1), time.UTC),
			},
		},
		{
			name:  "all ignores the bounds",
			since: "2025-03-05",
			all:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveRange(tc.since, tc.until, tc.all, now)
			require.NoError(t, err)
			assert.True(t, tc.want.From.Equal(got.From), "from: %s", got.From)
			assert.True(t, tc.want.To.Equal(got.To), "to: %s", got.To)
		})
	}
}

func TestResolveRangeErrors(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	_, err := resolveRange("not-a-date-at-all-xyz", "", false, now)
	assert.ErrorIs(t, err, errInvalidDate)

	_, err = resolveRange("2025-03-07", "2025-03-05", false, now)
	assert.ErrorIs(t, err, errInvalidDateRange)
}

func TestNewStatusReport(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

	open := attendance.Session{
		EmployeeID: "emp-1",
		State:      attendance.CheckedIn,
		CheckInAt:  time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC),
		Total:      2 * time.Hour,
		TotalDay:   "2025-03-04",
		Verified:   true,
	}

	r := newStatusReport("emp-1", open, now, time.UTC)
	assert.Equal(t, "03:30:00", r.Elapsed)
	assert.Equal(t, "5 hrs 30 mins", r.Today)
	assert.Equal(t, models.HalfDay, r.Projected)

	idle := attendance.Session{
		State:    attendance.Idle,
		Total:    2 * time.Hour,
		TotalDay: "2025-03-03",
	}

	r = newStatusReport("emp-1", idle, now, time.UTC)
	assert.Equal(t, "emp-1", r.Employee)
	assert.Equal(t, "00:00:00", r.Elapsed)
	assert.Equal(t, "0 hrs 0 mins", r.Today)
	assert.Empty(t, r.Projected)

	var buf bytes.Buffer

	require.NoError(t, printJSON(&buf, r))
	assert.Contains(t, buf.String(), `"state": "idle"`)
	assert.NotContains(t, buf.String(), "projected_status")
	assert.NotContains(t, buf.String(), "check_in_at")
}

func TestPrintStatus(t *testing.T) {
	disableStyling()

	now := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

	s := attendance.Session{
		EmployeeID: "emp-1",
		State:      attendance.CheckedIn,
		CheckInAt:  time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer

	printStatus(&buf, newStatusReport("emp-1", s, now, time.UTC), status.DefaultPalette, time.UTC, "15:04:05")

	out := buf.String()
	assert.Contains(t, out, "checked in since 09:00:00")
	assert.Contains(t, out, "[unverified]")
	assert.Contains(t, out, "01:30:00")
	assert.Contains(t, out, "(Leave)")
}

func TestCheckedOutText(t *testing.T) {
	s := attendance.Session{
		EmployeeID: "emp-1",
		LastCheckOut: &models.AttendanceEvent{
			Kind:       models.CheckOut,
			OccurredAt: time.Date(2025, 3, 4, 17, 1, 0, 0, time.UTC),
			Duration:   5*time.Hour + time.Minute,
			Status:     models.FullDay,
			TotalTime:  "5 hrs 1 mins",
		},
	}

	got := checkedOutText(s, status.DefaultPalette, time.UTC, "15:04")
	assert.Contains(t, got, "emp-1 checked out at 17:01 after 05:01:00")
	assert.Contains(t, got, "Full Day")
	assert.Contains(t, got, "Today: 5 hrs 1 mins")

	assert.Equal(t, "emp-1 checked out", checkedOutText(
		attendance.Session{EmployeeID: "emp-1"},
		status.DefaultPalette,
		time.UTC,
		"15:04",
	))
}

func TestPrintEmployees(t *testing.T) {
	var buf bytes.Buffer

	printEmployees(&buf, []string{"emp-1", "emp-2"})
	assert.Equal(t, "emp-1\nemp-2\n", buf.String())
}
