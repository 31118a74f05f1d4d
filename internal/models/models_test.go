package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckOutWireShape(t *testing.T) {
	at := time.Date(2025, 3, 4, 14, 1, 0, 0, time.UTC)

	ev := AttendanceEvent{
		ID:         "ev-1",
		EmployeeID: "e1",
		Kind:       CheckOut,
		OccurredAt: at,
		RecordedAt: at,
		Duration:   18060 * time.Second,
		Status:     FullDay,
		TotalTime:  "5 hrs 1 mins",
	}

	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var fields map[string]any

	require.NoError(t, json.Unmarshal(b, &fields))

	assert.Equal(t, "Check-Out", fields["kind"])
	assert.Equal(t, "Full Day", fields["status"])
	assert.Equal(t, "5 hrs 1 mins", fields["totalTime"])
	assert.EqualValues(t, 18060, fields["duration"])
	assert.Equal(t, "2025-03-04T14:01:00Z", fields["time"])

	var decoded AttendanceEvent

	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, ev, decoded)
}

func TestCheckInHasNoDuration(t *testing.T) {
	b, err := json.Marshal(AttendanceEvent{Kind: CheckIn, EmployeeID: "e1"})
	require.NoError(t, err)

	assert.NotContains(t, string(b), "duration")
	assert.NotContains(t, string(b), "status")
}

func TestCheckOutWithoutDuration(t *testing.T) {
	var legacy AttendanceEvent

	require.NoError(t, json.Unmarshal(
		[]byte(`{"kind":"Check-Out","employee_id":"e1","totalTime":"5 hrs 1 mins"}`),
		&legacy,
	))
	assert.True(t, legacy.DurationMissing)
	assert.Zero(t, legacy.Duration)

	b, err := json.Marshal(legacy)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "duration", "an absent duration stays absent")

	var zero AttendanceEvent

	require.NoError(t, json.Unmarshal(
		[]byte(`{"kind":"Check-Out","employee_id":"e1","duration":0}`),
		&zero,
	))
	assert.False(t, zero.DurationMissing, "a recorded zero is a known duration")
}
