// Package store connects to the attendance event log. Two backends are
// provided: a local BoltDB file and a PostgreSQL database.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/clock"
	"github.com/ayoisaiah/attend/internal/logging"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/timeutil"
)

const employeesBucket = "employees"

// BoltLog is an EventLog backed by a BoltDB file. Each employee has a nested
// bucket whose keys are the RecordedAt timestamps of the events.
type BoltLog struct {
	*bolt.DB
	clock  clock.Clock
	logger *slog.Logger
}

// BoltOption configures a BoltLog.
type BoltOption func(*BoltLog)

// WithBoltClock sets the clock used to assign RecordedAt.
func WithBoltClock(c clock.Clock) BoltOption {
	return func(b *BoltLog) {
		b.clock = c
	}
}

// WithBoltLogger sets the logger.
func WithBoltLogger(l *slog.Logger) BoltOption {
	return func(b *BoltLog) {
		b.logger = l
	}
}

// NewBoltLog opens (or creates) the event log at dbPath.
func NewBoltLog(dbPath string, opts ...BoltOption) (*BoltLog, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(employeesBucket))

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	l := &BoltLog{
		DB:     db,
		clock:  clock.System{},
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// openDB creates or opens a database and locks it.
func openDB(dbPath string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		dbPath,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errStoreLocked.Fmt(dbPath)
		}

		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	return db, nil
}

func (l *BoltLog) Append(
	ctx context.Context,
	ev models.AttendanceEvent,
) (models.AttendanceEvent, error) {
	if err := ctx.Err(); err != nil {
		return ev, apperr.ErrStoreUnavailable.Wrap(err)
	}

	err := l.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(employeesBucket))

		var last *models.AttendanceEvent

		if b := root.Bucket([]byte(ev.EmployeeID)); b != nil {
			if k, v := b.Cursor().Last(); k != nil {
				var prev models.AttendanceEvent
				if err := json.Unmarshal(v, &prev); err != nil {
					return errCorruptRecord.Fmt(k, ev.EmployeeID).Wrap(err)
				}

				last = &prev
			}
		}

		if err := checkAppend(last, ev); err != nil {
			return err
		}

		b, err := root.CreateBucketIfNotExists([]byte(ev.EmployeeID))
		if err != nil {
			return err
		}

		// RecordedAt must grow strictly even if the clock stalls or goes
		// backwards
		recorded := l.clock.Now()
		if last != nil && !recorded.After(last.RecordedAt) {
			recorded = last.RecordedAt.Add(time.Nanosecond)
		}

		ev.ID = uuid.NewString()
		ev.RecordedAt = recorded

		value, err := json.Marshal(ev)
		if err != nil {
			return err
		}

		return b.Put(timeutil.ToKey(ev.RecordedAt), value)
	})
	if err != nil {
		if isCallerError(err) {
			return ev, err
		}

		return ev, apperr.ErrStoreUnavailable.Wrap(err)
	}

	l.logger.DebugContext(ctx, "event appended", slog.String("event", logging.Dump(ev)))

	return ev, nil
}

func (l *BoltLog) Latest(
	ctx context.Context,
	employeeID string,
	n int,
) ([]models.AttendanceEvent, error) {
	if employeeID == "" {
		return nil, apperr.ErrMissingIdentity
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	var events []models.AttendanceEvent

	err := l.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(employeesBucket)).Bucket([]byte(employeeID))
		if b == nil {
			return nil
		}

		c := b.Cursor()

		for k, v := c.Last(); k != nil && len(events) < n; k, v = c.Prev() {
			var ev models.AttendanceEvent
			if err := json.Unmarshal(v, &ev); err != nil {
				return errCorruptRecord.Fmt(k, employeeID).Wrap(err)
			}

			events = append(events, ev)
		}

		return nil
	})
	if err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	slices.Reverse(events)

	return events, nil
}

func (l *BoltLog) Walk(
	ctx context.Context,
	employeeID string,
	from, to time.Time,
	fn func(models.AttendanceEvent) error,
) error {
	if employeeID == "" {
		return apperr.ErrMissingIdentity
	}

	var fnErr error

	err := l.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(employeesBucket)).Bucket([]byte(employeeID))
		if b == nil {
			return nil
		}

		c := b.Cursor()

		var k, v []byte
		if from.IsZero() {
			k, v = c.First()
		} else {
			k, v = c.Seek(timeutil.ToKey(from))
		}

		var upper []byte
		if !to.IsZero() {
			upper = timeutil.ToKey(to)
		}

		for ; k != nil && (upper == nil || bytes.Compare(k, upper) <= 0); k, v = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var ev models.AttendanceEvent
			if err := json.Unmarshal(v, &ev); err != nil {
				return errCorruptRecord.Fmt(k, employeeID).Wrap(err)
			}

			if err := fn(ev); err != nil {
				fnErr = err
				return err
			}
		}

		return nil
	})

	if fnErr != nil {
		return fnErr
	}

	if err != nil {
		return apperr.ErrStoreUnavailable.Wrap(err)
	}

	return nil
}

func (l *BoltLog) Employees(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	var ids []string

	err := l.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(employeesBucket)).ForEachBucket(func(k []byte) error {
			ids = append(ids, string(k))

			return nil
		})
	})
	if err != nil {
		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	sort.Sort(natural.StringSlice(ids))

	return ids, nil
}
