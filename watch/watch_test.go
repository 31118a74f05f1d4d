package watch_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/attend/attendance"
	"github.com/ayoisaiah/attend/internal/clock"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/testutil"
	"github.com/ayoisaiah/attend/watch"
)

const emp = "emp-1"

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func setup(t *testing.T, cached time.Time) (*watch.Model, *clock.Fake, *testutil.MemoryLog) {
	t.Helper()

	now := time.Date(2025, 3, 4, 7, 30, 0, 0, time.UTC)
	fake := clock.NewFake(now)
	l := testutil.NewMemoryLog(now.Add(-time.Hour))
	c := testutil.NewMemoryCache()

	if !cached.IsZero() {
		c.Put(emp, models.CacheEntry{CheckInAt: cached})
	}

	m := attendance.New(l, c, attendance.WithClock(fake), attendance.WithLocation(time.UTC))

	_, err := m.Reconcile(context.Background(), emp)
	require.NoError(t, err)

	return watch.New(context.Background(), m, watch.Options{
		Clock:          fake,
		Location:       time.UTC,
		EmployeeID:     emp,
		TwentyFourHour: true,
	}), fake, l
}

func TestTimerShowsElapsed(t *testing.T) {
	model, fake, l := setup(t, time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC))

	view := model.View()
	assert.Contains(t, view, "00:30:00")
	assert.Contains(t, view, "Checked in since 07:00")

	fake.Advance(90 * time.Second)

	_, cmd := model.Update(tea.Msg(nil))
	assert.Nil(t, cmd)

	next, cmd := model.Update(model.Init()())
	require.NotNil(t, cmd)

	assert.Contains(t, next.View(), "00:31:30")
	assert.Zero(t, l.Appends, "the timer must not write to the log")
}

func TestTimerIdle(t *testing.T) {
	model, _, _ := setup(t, time.Time{})

	view := model.View()
	assert.Contains(t, view, "Not checked in")
	assert.Contains(t, view, "00:00:00")
}

func TestTimerCheckOutNeedsConfirmation(t *testing.T) {
	model, _, l := setup(t, time.Time{})

	// idle: c checks in straight away
	_, cmd := model.Update(keyPress("c"))
	require.NotNil(t, cmd)

	_, _ = model.Update(cmd())
	assert.Contains(t, model.View(), "Checked in since 07:30")
	require.Len(t, l.Events(emp), 1)

	_, cmd = model.Update(keyPress("c"))
	assert.Nil(t, cmd)
	assert.Contains(t, model.View(), "Check out now?")

	_, cmd = model.Update(keyPress("n"))
	assert.Nil(t, cmd)
	assert.Len(t, l.Events(emp), 1)

	_, _ = model.Update(keyPress("c"))
	_, cmd = model.Update(keyPress("y"))
	require.NotNil(t, cmd)

	_, _ = model.Update(cmd())
	assert.Contains(t, model.View(), "Not checked in")

	events := l.Events(emp)
	require.Len(t, events, 2)
	assert.Equal(t, models.CheckOut, events[1].Kind)
}

func TestTimerShowsTransitionError(t *testing.T) {
	model, _, l := setup(t, time.Time{})

	l.FailAppend = true

	_, cmd := model.Update(keyPress("c"))
	require.NotNil(t, cmd)

	_, _ = model.Update(cmd())
	assert.Contains(t, model.View(), "store unavailable")
	assert.Contains(t, model.View(), "Not checked in")
}

func TestTimerQuit(t *testing.T) {
	model, _, _ := setup(t, time.Time{})

	_, cmd := model.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
