package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/attend/attendance"
	"github.com/ayoisaiah/attend/cache"
	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/config"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/store"
)

const envKey = "env"

// env holds the resources shared by the commands of a single invocation.
// The event log and the cache are opened on first use so that commands such
// as edit-config never lock the database files.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	log     store.EventLog
	cache   cache.Store
	machine *attendance.Machine
	closers []io.Closer
}

func fromContext(ctx *cli.Context) (*env, error) {
	e, ok := ctx.App.Metadata[envKey].(*env)
	if !ok || e == nil {
		return nil, errNoEnv
	}

	return e, nil
}

// palette returns the status colours from the display settings.
func (e *env) palette() status.Palette {
	return status.Palette{
		FullDay: e.cfg.Display.FullDayColor,
		HalfDay: e.cfg.Display.HalfDayColor,
		Leave:   e.cfg.Display.LeaveColor,
	}
}

// eventLog opens the configured event log backend.
func (e *env) eventLog(ctx context.Context) (store.EventLog, error) {
	if e.log != nil {
		return e.log, nil
	}

	var (
		l   store.EventLog
		err error
	)

	switch e.cfg.Store.Backend {
	case config.BackendPostgres:
		l, err = store.NewPostgresLog(ctx, e.cfg.Store.DatabaseURL, e.logger)
	default:
		l, err = store.NewBoltLog(
			e.cfg.System.EventsPath,
			store.WithBoltLogger(e.logger),
		)
	}

	if err != nil {
		return nil, err
	}

	e.log = l
	e.closers = append(e.closers, l)

	return l, nil
}

// tracker returns the attendance machine with the configured employee
// reconciled.
func (e *env) tracker(ctx context.Context) (*attendance.Machine, error) {
	if e.machine != nil {
		return e.machine, nil
	}

	if e.cfg.Employee.ID == "" {
		return nil, apperr.ErrMissingIdentity.Wrap(errNoEmployee)
	}

	l, err := e.eventLog(ctx)
	if err != nil {
		return nil, err
	}

	if e.cache == nil {
		c, err := cache.NewBoltCache(e.cfg.System.CachePath)
		if err != nil {
			return nil, err
		}

		e.cache = c
		e.closers = append(e.closers, c)
	}

	m := attendance.New(
		l,
		e.cache,
		attendance.WithLocation(e.cfg.Location()),
		attendance.WithHook(e.cfg.Settings.Cmd),
		attendance.WithLogger(e.logger),
	)

	if _, err := m.Reconcile(ctx, e.cfg.Employee.ID); err != nil {
		return nil, err
	}

	e.machine = m

	return m, nil
}

// Close releases every resource opened so far, most recent first.
func (e *env) Close() error {
	var errs []error

	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}

	e.closers = nil

	return errors.Join(errs...)
}
