package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maruel/natural"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/logging"
	"github.com/ayoisaiah/attend/internal/models"
)

const (
	maxConns = 10
	minConns = 1
)

// PostgresLog is an EventLog backed by the attendance_events table. Appends
// for the same employee are serialized with a transaction-scoped advisory
// lock so that concurrent devices cannot both check in.
type PostgresLog struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresLog connects to dsn and applies pending migrations.
func NewPostgresLog(
	ctx context.Context,
	dsn string,
	logger *slog.Logger,
) (*PostgresLog, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, apperr.ErrStoreUnavailable.Wrap(
			fmt.Errorf("migrating schema: %w", err),
		)
	}

	if logger == nil {
		logger = logging.Discard()
	}

	return &PostgresLog{
		pool:   pool,
		logger: logger,
	}, nil
}

// withTransaction executes fn inside a database transaction
func (p *PostgresLog) withTransaction(
	ctx context.Context,
	fn func(tx pgx.Tx) error,
) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (p *PostgresLog) Append(
	ctx context.Context,
	ev models.AttendanceEvent,
) (models.AttendanceEvent, error) {
	err := p.withTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
			ev.EmployeeID,
		)
		if err != nil {
			return err
		}

		var (
			last     *models.AttendanceEvent
			kind     string
			recorded time.Time
		)

		err = tx.QueryRow(ctx, `
			SELECT kind, recorded_at
			FROM attendance_events
			WHERE employee_id = $1
			ORDER BY recorded_at DESC, seq DESC
			LIMIT 1
		`, ev.EmployeeID).Scan(&kind, &recorded)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return err
		default:
			last = &models.AttendanceEvent{
				Kind:       models.Kind(kind),
				RecordedAt: recorded,
			}
		}

		if err := checkAppend(last, ev); err != nil {
			return err
		}

		var lastRecorded *time.Time
		if last != nil {
			lastRecorded = &last.RecordedAt
		}

		ev.ID = uuid.NewString()

		// GREATEST ignores NULL, so the first event simply gets the
		// current time
		return tx.QueryRow(ctx, `
			INSERT INTO attendance_events (
				id, employee_id, kind, occurred_at, recorded_at,
				duration_seconds, status, total_time
			) VALUES (
				$1::text::uuid, $2, $3, $4,
				GREATEST(clock_timestamp(), $5::timestamptz + interval '1 microsecond'),
				$6, $7, $8
			) RETURNING recorded_at
		`,
			ev.ID,
			ev.EmployeeID,
			string(ev.Kind),
			ev.OccurredAt,
			lastRecorded,
			durationSeconds(ev),
			nullString(string(ev.Status)),
			nullString(ev.TotalTime),
		).Scan(&ev.RecordedAt)
	})
	if err != nil {
		if isCallerError(err) {
			return ev, err
		}

		return ev, apperr.ErrStoreUnavailable.Wrap(err)
	}

	p.logger.DebugContext(ctx, "event appended", slog.String("event", logging.Dump(ev)))

	return ev, nil
}

const selectEvents = `
	SELECT id::text, employee_id, kind, occurred_at, recorded_at,
	       duration_seconds, status, total_time
	FROM attendance_events
`

func (p *PostgresLog) Latest(
	ctx context.Context,
	employeeID string,
	n int,
) ([]models.AttendanceEvent, error) {
	if employeeID == "" {
		return nil, apperr.ErrMissingIdentity
	}

	rows, err := p.pool.Query(ctx, selectEvents+`
		WHERE employee_id = $1
		ORDER BY recorded_at DESC, seq DESC
		LIMIT $2
	`, employeeID, n)
	if err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}
	defer rows.Close()

	var events []models.AttendanceEvent

	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, apperr.ErrStoreUnavailable.Wrap(err)
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	slices.Reverse(events)

	return events, nil
}

func (p *PostgresLog) Walk(
	ctx context.Context,
	employeeID string,
	from, to time.Time,
	fn func(models.AttendanceEvent) error,
) error {
	if employeeID == "" {
		return apperr.ErrMissingIdentity
	}

	rows, err := p.pool.Query(ctx, selectEvents+`
		WHERE employee_id = $1
		  AND ($2::timestamptz IS NULL OR recorded_at >= $2)
		  AND ($3::timestamptz IS NULL OR recorded_at <= $3)
		ORDER BY recorded_at ASC, seq ASC
	`, employeeID, nullTime(from), nullTime(to))
	if err != nil {
		return apperr.ErrStoreUnavailable.Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return apperr.ErrStoreUnavailable.Wrap(err)
		}

		if err := fn(ev); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return apperr.ErrStoreUnavailable.Wrap(err)
	}

	return nil
}

func (p *PostgresLog) Employees(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT DISTINCT employee_id FROM attendance_events`)
	if err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	sort.Sort(natural.StringSlice(ids))

	return ids, nil
}

func (p *PostgresLog) Close() error {
	p.pool.Close()

	return nil
}

func scanEvent(row pgx.Row) (models.AttendanceEvent, error) {
	var (
		ev        models.AttendanceEvent
		kind      string
		secs      *int64
		status    *string
		totalTime *string
	)

	err := row.Scan(
		&ev.ID,
		&ev.EmployeeID,
		&kind,
		&ev.OccurredAt,
		&ev.RecordedAt,
		&secs,
		&status,
		&totalTime,
	)
	if err != nil {
		return ev, err
	}

	ev.Kind = models.Kind(kind)

	if secs != nil {
		ev.Duration = time.Duration(*secs) * time.Second
	}

	ev.DurationMissing = ev.Kind == models.CheckOut && secs == nil

	if status != nil {
		ev.Status = models.Status(*status)
	}

	if totalTime != nil {
		ev.TotalTime = *totalTime
	}

	return ev, nil
}

func durationSeconds(ev models.AttendanceEvent) *int64 {
	if ev.Kind != models.CheckOut || ev.DurationMissing {
		return nil
	}

	secs := int64(ev.Duration / time.Second)

	return &secs
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
