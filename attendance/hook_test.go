package attendance

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/attend/internal/clock"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/osutil"
	"github.com/ayoisaiah/attend/internal/testutil"
)

func TestHookCommand(t *testing.T) {
	ev := models.AttendanceEvent{
		EmployeeID: "emp 7",
		Kind:       models.CheckOut,
		Status:     models.HalfDay,
	}

	cmd, err := hookCommand(context.Background(), `notify-send "Session over"`, ev)
	require.NoError(t, err)
	require.NotNil(t, cmd)

	assert.Equal(t, []string{"notify-send", "Session over"}, cmd.Args)
	assert.Contains(t, cmd.Env, "ATTEND_EVENT=Check-Out")
	assert.Contains(t, cmd.Env, "ATTEND_EMPLOYEE=emp 7")
	assert.Contains(t, cmd.Env, "ATTEND_STATUS=Half Day")

	cmd, err = hookCommand(context.Background(), "   ", ev)
	require.NoError(t, err)
	assert.Nil(t, cmd)

	_, err = hookCommand(context.Background(), `echo "unterminated`, ev)
	assert.Error(t, err)
}

func TestHookRunsAfterTransition(t *testing.T) {
	if runtime.GOOS == osutil.Windows {
		t.Skip("hook test relies on a POSIX shell")
	}

	out := filepath.Join(t.TempDir(), "hook.txt")
	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	m := New(
		testutil.NewMemoryLog(now),
		testutil.NewMemoryCache(),
		WithClock(clock.NewFake(now)),
		WithHook(`sh -c 'printf "%s" "$ATTEND_EVENT" > `+out+`'`),
	)

	_, err := m.CheckIn(context.Background(), "e1")
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Check-In", string(b))
}

func TestFailingHookDoesNotFailTransition(t *testing.T) {
	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	m := New(
		testutil.NewMemoryLog(now),
		testutil.NewMemoryCache(),
		WithClock(clock.NewFake(now)),
		WithHook("attend-hook-that-does-not-exist"),
	)

	s, err := m.CheckIn(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, s.State)
}

func TestSlowHookDoesNotBlockEmployee(t *testing.T) {
	if runtime.GOOS == osutil.Windows {
		t.Skip("hook test relies on a POSIX shell")
	}

	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

	m := New(
		testutil.NewMemoryLog(now),
		testutil.NewMemoryCache(),
		WithClock(clock.NewFake(now)),
		WithHook("sleep 2"),
	)

	done := make(chan error, 1)

	go func() {
		_, err := m.CheckIn(context.Background(), "e1")
		done <- err
	}()

	require.Eventually(t, func() bool {
		s, _ := m.Snapshot("e1")
		return s.State == CheckedIn
	}, time.Second, 10*time.Millisecond)

	start := time.Now()

	s, err := m.Reconcile(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, CheckedIn, s.State)
	assert.Less(t, time.Since(start), time.Second, "reconcile waited for the hook")

	require.NoError(t, <-done)
}
