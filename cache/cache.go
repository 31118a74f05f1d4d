// Package cache persists the in-progress session of each employee on the local
// device so that a restart does not lose the check-in time.
package cache

import (
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/osutil"
	"github.com/ayoisaiah/attend/internal/timeutil"
)

// Keys stored in each employee bucket.
const (
	keyCheckInTime = "checkInTime"
	keyTotalTime   = "totalTime"
	keyTotalDay    = "totalDay"
)

// Store is the local session cache.
type Store interface {
	// Load returns the cached entry of an employee. A missing entry is the
	// zero CacheEntry. Unparsable values are reported with
	// apperr.ErrCorruptCacheEntry.
	Load(employeeID string) (models.CacheEntry, error)
	// SaveCheckIn records the start of an open session.
	SaveCheckIn(employeeID string, at time.Time) error
	// CloseSession stores the accumulated total of day and removes the
	// check-in time in a single write.
	CloseSession(employeeID string, total time.Duration, day string) error
	// Clear removes every key of an employee.
	Clear(employeeID string) error
	Close() error
}

// BoltCache is a Store backed by a BoltDB file with one bucket per employee.
type BoltCache struct {
	db *bolt.DB
}

// NewBoltCache opens (or creates) the session cache at dbPath.
func NewBoltCache(dbPath string) (*BoltCache, error) {
	db, err := bolt.Open(
		dbPath,
		osutil.FilePermission,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errCacheLocked.Fmt(dbPath)
		}

		return nil, apperr.ErrStoreUnavailable.Wrap(err)
	}

	return &BoltCache{db: db}, nil
}

func (c *BoltCache) Load(employeeID string) (models.CacheEntry, error) {
	var entry models.CacheEntry

	if employeeID == "" {
		return entry, apperr.ErrMissingIdentity
	}

	var raw struct {
		checkIn, total, day string
	}

	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(employeeID))
		if b == nil {
			return nil
		}

		raw.checkIn = string(b.Get([]byte(keyCheckInTime)))
		raw.total = string(b.Get([]byte(keyTotalTime)))
		raw.day = string(b.Get([]byte(keyTotalDay)))

		return nil
	})
	if err != nil {
		return entry, apperr.ErrStoreUnavailable.Wrap(err)
	}

	if raw.checkIn != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.checkIn)
		if err != nil {
			return entry, apperr.ErrCorruptCacheEntry.Wrap(
				errCorruptValue.Fmt(keyCheckInTime, employeeID, raw.checkIn),
			)
		}

		entry.CheckInAt = t
	}

	if raw.total != "" {
		d, err := timeutil.ParseTotal(raw.total)
		if err != nil {
			return entry, apperr.ErrCorruptCacheEntry.Wrap(
				errCorruptValue.Fmt(keyTotalTime, employeeID, raw.total),
			)
		}

		entry.AccumulatedTotal = d
	}

	if raw.day != "" {
		if _, err := time.Parse(timeutil.DayLayout, raw.day); err != nil {
			return entry, apperr.ErrCorruptCacheEntry.Wrap(
				errCorruptValue.Fmt(keyTotalDay, employeeID, raw.day),
			)
		}

		entry.TotalDay = raw.day
	}

	return entry, nil
}

func (c *BoltCache) SaveCheckIn(employeeID string, at time.Time) error {
	return c.update(employeeID, func(b *bolt.Bucket) error {
		return b.Put(
			[]byte(keyCheckInTime),
			[]byte(at.Format(time.RFC3339Nano)),
		)
	})
}

func (c *BoltCache) CloseSession(
	employeeID string,
	total time.Duration,
	day string,
) error {
	return c.update(employeeID, func(b *bolt.Bucket) error {
		err := b.Put([]byte(keyTotalTime), []byte(timeutil.FormatTotal(total)))
		if err != nil {
			return err
		}

		err = b.Put([]byte(keyTotalDay), []byte(day))
		if err != nil {
			return err
		}

		return b.Delete([]byte(keyCheckInTime))
	})
}

func (c *BoltCache) Clear(employeeID string) error {
	if employeeID == "" {
		return apperr.ErrMissingIdentity
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(employeeID))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}

		return err
	})
	if err != nil {
		return apperr.ErrStoreUnavailable.Wrap(err)
	}

	return nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

func (c *BoltCache) update(employeeID string, fn func(b *bolt.Bucket) error) error {
	if employeeID == "" {
		return apperr.ErrMissingIdentity
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(employeeID))
		if err != nil {
			return err
		}

		return fn(b)
	})
	if err != nil {
		return apperr.ErrStoreUnavailable.Wrap(err)
	}

	return nil
}
