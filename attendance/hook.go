package attendance

import (
	"context"
	"log/slog"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/attend/internal/models"
)

// Environment passed to the hook command.
const (
	EnvEvent    = "ATTEND_EVENT"
	EnvEmployee = "ATTEND_EMPLOYEE"
	EnvStatus   = "ATTEND_STATUS"
)

// runHook executes the configured command after a transition. Failures are
// logged and otherwise ignored.
func (m *Machine) runHook(ctx context.Context, ev models.AttendanceEvent) {
	if m.hook == "" {
		return
	}

	cmd, err := hookCommand(ctx, m.hook, ev)
	if err != nil {
		m.logger.WarnContext(ctx, "unable to parse hook command",
			slog.String("cmd", m.hook),
			slog.Any("error", err),
		)

		return
	}

	if cmd == nil {
		return
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		m.logger.WarnContext(ctx, "hook command failed",
			slog.String("cmd", m.hook),
			slog.String("output", string(out)),
			slog.Any("error", err),
		)
	}
}

// hookCommand builds the command for ev. It returns nil if s holds no
// command.
func hookCommand(
	ctx context.Context,
	s string,
	ev models.AttendanceEvent,
) (*exec.Cmd, error) {
	cmdSlice, err := shellquote.Split(s)
	if err != nil {
		return nil, errHookParse.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil, nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(
		os.Environ(),
		EnvEvent+"="+string(ev.Kind),
		EnvEmployee+"="+ev.EmployeeID,
		EnvStatus+"="+string(ev.Status),
	)

	return cmd, nil
}
