package attendance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayoisaiah/attend/cache"
	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/clock"
	"github.com/ayoisaiah/attend/internal/logging"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/internal/timeutil"
	"github.com/ayoisaiah/attend/store"
)

// latestWindow is the number of events read from the log during
// reconciliation.
const latestWindow = 2

// Machine tracks the session of each employee. Transitions of one employee
// are serialized; different employees proceed independently.
type Machine struct {
	log    store.EventLog
	cache  cache.Store
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
	hook   string

	mu        sync.Mutex
	employees map[string]*employee
}

// employee holds the lock and published session of one employee.
type employee struct {
	mu         sync.Mutex
	current    atomic.Pointer[Session]
	reconciled bool
}

func (e *employee) session() Session {
	if s := e.current.Load(); s != nil {
		return *s
	}

	return Session{}
}

func (e *employee) publish(s Session) {
	e.current.Store(&s)
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the clock used to timestamp events.
func WithClock(c clock.Clock) Option {
	return func(m *Machine) {
		m.clock = c
	}
}

// WithLocation sets the location calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(m *Machine) {
		if loc != nil {
			m.loc = loc
		}
	}
}

// WithHook sets a command that is run after every successful transition.
func WithHook(cmd string) Option {
	return func(m *Machine) {
		m.hook = cmd
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns a Machine reading and appending events to log and keeping the
// open session of each employee in c.
func New(log store.EventLog, c cache.Store, opts ...Option) *Machine {
	m := &Machine{
		log:       log,
		cache:     c,
		clock:     clock.System{},
		loc:       time.Local,
		logger:    logging.Discard(),
		employees: make(map[string]*employee),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Machine) employee(id string) *employee {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[id]
	if !ok {
		e = &employee{}
		e.publish(Session{EmployeeID: id})
		m.employees[id] = e
	}

	return e
}

// Snapshot returns the current session of an employee without blocking on a
// transition in progress. The boolean is false if the employee has not been
// reconciled against the event log yet.
func (m *Machine) Snapshot(employeeID string) (Session, bool) {
	m.mu.Lock()
	e, ok := m.employees[employeeID]
	m.mu.Unlock()

	if !ok {
		return Session{EmployeeID: employeeID}, false
	}

	s := e.session()

	return s, s.Verified
}

// Reconcile rebuilds an employee's session from the local cache and the event
// log. It never appends to the log. If the log cannot be read the session is
// derived from the cache alone and the next operation tries again.
func (m *Machine) Reconcile(ctx context.Context, employeeID string) (Session, error) {
	if employeeID == "" {
		return Session{}, apperr.ErrMissingIdentity
	}

	e := m.employee(employeeID)

	e.mu.Lock()
	defer e.mu.Unlock()

	return m.reconcile(ctx, employeeID, e), nil
}

func (m *Machine) reconcile(ctx context.Context, id string, e *employee) Session {
	now := m.clock.Now()
	today := timeutil.DayKey(now, m.loc)
	logger := m.logger.With(slog.String("employee", id))

	s := Session{
		EmployeeID: id,
		State:      Idle,
	}

	cached, err := m.cache.Load(id)
	if err != nil {
		if errors.Is(err, apperr.ErrCorruptCacheEntry) {
			logger.WarnContext(ctx, "discarding corrupt session cache", slog.Any("error", err))

			if err := m.cache.Clear(id); err != nil {
				logger.WarnContext(ctx, "clearing session cache failed", slog.Any("error", err))
			}
		} else {
			logger.WarnContext(ctx, "session cache unavailable", slog.Any("error", err))
		}

		cached = models.CacheEntry{}
	}

	if cached.TotalDay == today {
		s.Total = cached.AccumulatedTotal
		s.TotalDay = today
	}

	if cached.HasCheckIn() {
		s.State = CheckedIn
		s.CheckInAt = cached.CheckInAt
	}

	events, err := m.log.Latest(ctx, id, latestWindow)
	if err != nil {
		logger.WarnContext(
			ctx,
			"event log unavailable, session derived from cache",
			slog.Any("error", err),
			slog.String("state", s.State.String()),
		)

		e.reconciled = false
		e.publish(s)

		return s
	}

	s.Verified = true

	if len(events) > 0 {
		last := events[len(events)-1]

		switch last.Kind {
		case models.CheckIn:
			s.State = CheckedIn
			s.CheckInAt = last.OccurredAt

			if !cached.CheckInAt.Equal(last.OccurredAt) {
				if err := m.cache.SaveCheckIn(id, last.OccurredAt); err != nil {
					logger.WarnContext(ctx, "re-seeding session cache failed", slog.Any("error", err))
				}
			}

			if len(events) > 1 && events[0].Kind == models.CheckOut {
				prev := events[0]
				s.LastCheckOut = &prev
			}
		case models.CheckOut:
			s.LastCheckOut = &last

			if s.TotalDay != today && timeutil.DayKey(last.OccurredAt, m.loc) == today {
				total, err := timeutil.ParseTotal(last.TotalTime)
				if err != nil {
					total = last.Duration
				}

				s.Total = total
				s.TotalDay = today
			}

			// the cache is only written after a check-in was appended, so a
			// log ending in a check-out always supersedes it
			if cached.HasCheckIn() {
				logger.InfoContext(
					ctx,
					"cached check-in superseded by a check-out",
					slog.Time("cached_check_in", cached.CheckInAt),
					slog.Time("check_out", last.OccurredAt),
				)

				s.State = Idle
				s.CheckInAt = time.Time{}

				if err := m.cache.CloseSession(id, s.Total, s.TotalDay); err != nil {
					logger.WarnContext(ctx, "clearing stale check-in failed", slog.Any("error", err))
				}
			}
		}
	}

	e.reconciled = true
	e.publish(s)

	logger.DebugContext(ctx, "session reconciled", slog.String("session", logging.Dump(s)))

	return s
}

// CheckIn opens a session for an employee at the current time.
func (m *Machine) CheckIn(ctx context.Context, employeeID string) (Session, error) {
	s, ev, err := m.checkIn(ctx, employeeID)
	if err != nil {
		return s, err
	}

	// the employee is unlocked while the hook runs
	m.runHook(ctx, ev)

	return s, nil
}

// checkIn appends a check-in while holding the lock of the employee.
func (m *Machine) checkIn(
	ctx context.Context,
	employeeID string,
) (Session, models.AttendanceEvent, error) {
	if employeeID == "" {
		return Session{}, models.AttendanceEvent{}, apperr.ErrMissingIdentity
	}

	e := m.employee(employeeID)

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session()
	if !e.reconciled {
		s = m.reconcile(ctx, employeeID, e)
	}

	if s.State == CheckedIn {
		return s, models.AttendanceEvent{}, errAlreadyCheckedIn.Fmt(
			employeeID,
			s.CheckInAt.In(m.loc).Format(time.Kitchen),
		).Wrap(apperr.ErrInvalidState)
	}

	now := m.clock.Now()

	ev, err := m.log.Append(ctx, models.AttendanceEvent{
		EmployeeID: employeeID,
		Kind:       models.CheckIn,
		OccurredAt: now,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			// the log knows of a session this device does not
			e.reconciled = false
		}

		return s, ev, err
	}

	next := s
	next.State = CheckedIn
	next.CheckInAt = now
	next.Verified = true

	if err := m.cache.SaveCheckIn(employeeID, now); err != nil {
		m.logger.WarnContext(
			ctx,
			"caching check-in failed",
			slog.String("employee", employeeID),
			slog.Any("error", err),
		)
	}

	e.reconciled = true
	e.publish(next)

	m.logger.InfoContext(
		ctx,
		"checked in",
		slog.String("employee", employeeID),
		slog.Time("at", now),
	)

	return next, ev, nil
}

// CheckOut closes the open session of an employee. The session is labelled
// with its status and its duration is added to the total of the day.
func (m *Machine) CheckOut(ctx context.Context, employeeID string) (Session, error) {
	s, ev, err := m.checkOut(ctx, employeeID)
	if err != nil {
		return s, err
	}

	// the employee is unlocked while the hook runs
	m.runHook(ctx, ev)

	return s, nil
}

// checkOut appends a check-out while holding the lock of the employee.
func (m *Machine) checkOut(
	ctx context.Context,
	employeeID string,
) (Session, models.AttendanceEvent, error) {
	if employeeID == "" {
		return Session{}, models.AttendanceEvent{}, apperr.ErrMissingIdentity
	}

	e := m.employee(employeeID)

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session()
	if !e.reconciled {
		s = m.reconcile(ctx, employeeID, e)
	}

	if s.State != CheckedIn {
		return s, models.AttendanceEvent{}, errNotCheckedIn.Fmt(employeeID).
			Wrap(apperr.ErrInvalidState)
	}

	now := m.clock.Now()
	today := timeutil.DayKey(now, m.loc)

	d := s.Elapsed(now).Truncate(time.Second)

	total := d
	if s.TotalDay == today {
		total += s.Total
	}

	ev, err := m.log.Append(ctx, models.AttendanceEvent{
		EmployeeID: employeeID,
		Kind:       models.CheckOut,
		OccurredAt: now,
		Duration:   d,
		Status:     status.Classify(d),
		TotalTime:  timeutil.FormatTotal(total),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidState) {
			// the log has no open session, so the local check-in is stale
			if cerr := m.cache.CloseSession(employeeID, s.Total, s.TotalDay); cerr != nil {
				m.logger.WarnContext(
					ctx,
					"clearing stale check-in failed",
					slog.String("employee", employeeID),
					slog.Any("error", cerr),
				)
			}

			e.reconciled = false
		}

		return s, ev, err
	}

	next := Session{
		EmployeeID:   employeeID,
		State:        Idle,
		Total:        total,
		TotalDay:     today,
		LastCheckOut: &ev,
		Verified:     true,
	}

	if err := m.cache.CloseSession(employeeID, total, today); err != nil {
		m.logger.WarnContext(
			ctx,
			"caching session total failed",
			slog.String("employee", employeeID),
			slog.Any("error", err),
		)
	}

	e.reconciled = true
	e.publish(next)

	m.logger.InfoContext(
		ctx,
		"checked out",
		slog.String("employee", employeeID),
		slog.Duration("duration", d),
		slog.String("status", string(ev.Status)),
		slog.String("total", ev.TotalTime),
	)

	return next, ev, nil
}
