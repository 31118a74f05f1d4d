package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/models"
)

// errInjected is the cause of every failure produced by the fakes.
var errInjected = errors.New("injected failure")

// MemoryLog is an in-memory event log. Reads and appends can be made to fail
// to simulate an unreachable store.
type MemoryLog struct {
	mu         sync.Mutex
	events     map[string][]models.AttendanceEvent
	now        time.Time
	FailAppend bool
	FailRead   bool
	Appends    int
}

// NewMemoryLog returns an empty MemoryLog. RecordedAt values start at start
// and grow by one second per append.
func NewMemoryLog(start time.Time) *MemoryLog {
	return &MemoryLog{
		events: make(map[string][]models.AttendanceEvent),
		now:    start,
	}
}

// Seed appends events without validation. RecordedAt is taken from OccurredAt
// when unset.
func (m *MemoryLog) Seed(events ...models.AttendanceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range events {
		if ev.RecordedAt.IsZero() {
			ev.RecordedAt = ev.OccurredAt
		}

		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}

		m.events[ev.EmployeeID] = append(m.events[ev.EmployeeID], ev)

		if ev.RecordedAt.After(m.now) {
			m.now = ev.RecordedAt
		}
	}
}

// Events returns a copy of an employee's log.
func (m *MemoryLog) Events(employeeID string) []models.AttendanceEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]models.AttendanceEvent(nil), m.events[employeeID]...)
}

func (m *MemoryLog) Append(
	_ context.Context,
	ev models.AttendanceEvent,
) (models.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppend {
		return ev, apperr.ErrStoreUnavailable.Wrap(errInjected)
	}

	if ev.EmployeeID == "" {
		return ev, apperr.ErrMissingIdentity
	}

	log := m.events[ev.EmployeeID]

	switch {
	case len(log) == 0 && ev.Kind != models.CheckIn:
		return ev, apperr.ErrInvalidState
	case len(log) > 0 && log[len(log)-1].Kind == ev.Kind:
		return ev, apperr.ErrInvalidState
	}

	m.now = m.now.Add(time.Second)
	m.Appends++

	ev.ID = uuid.NewString()
	ev.RecordedAt = m.now

	m.events[ev.EmployeeID] = append(log, ev)

	return ev, nil
}

func (m *MemoryLog) Latest(
	_ context.Context,
	employeeID string,
	n int,
) ([]models.AttendanceEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailRead {
		return nil, apperr.ErrStoreUnavailable.Wrap(errInjected)
	}

	log := m.events[employeeID]
	if len(log) > n {
		log = log[len(log)-n:]
	}

	return append([]models.AttendanceEvent(nil), log...), nil
}

func (m *MemoryLog) Walk(
	_ context.Context,
	employeeID string,
	from, to time.Time,
	fn func(models.AttendanceEvent) error,
) error {
	m.mu.Lock()

	if m.FailRead {
		m.mu.Unlock()
		return apperr.ErrStoreUnavailable.Wrap(errInjected)
	}

	log := append([]models.AttendanceEvent(nil), m.events[employeeID]...)

	m.mu.Unlock()

	for _, ev := range log {
		if !from.IsZero() && ev.RecordedAt.Before(from) {
			continue
		}

		if !to.IsZero() && ev.RecordedAt.After(to) {
			break
		}

		if err := fn(ev); err != nil {
			return err
		}
	}

	return nil
}

func (m *MemoryLog) Employees(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailRead {
		return nil, apperr.ErrStoreUnavailable.Wrap(errInjected)
	}

	ids := make([]string, 0, len(m.events))
	for id := range m.events {
		ids = append(ids, id)
	}

	sort.Sort(natural.StringSlice(ids))

	return ids, nil
}

func (m *MemoryLog) Close() error {
	return nil
}

// MemoryCache is an in-memory session cache with failure injection.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]models.CacheEntry
	corrupt   map[string]bool
	FailWrite bool
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]models.CacheEntry),
		corrupt: make(map[string]bool),
	}
}

// Put replaces an employee's entry.
func (c *MemoryCache) Put(employeeID string, entry models.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[employeeID] = entry
	delete(c.corrupt, employeeID)
}

// Corrupt makes the next loads of an employee fail with
// apperr.ErrCorruptCacheEntry until the entry is written again.
func (c *MemoryCache) Corrupt(employeeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.corrupt[employeeID] = true
}

// Entry returns the stored entry without corruption checks.
func (c *MemoryCache) Entry(employeeID string) models.CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries[employeeID]
}

func (c *MemoryCache) Load(employeeID string) (models.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if employeeID == "" {
		return models.CacheEntry{}, apperr.ErrMissingIdentity
	}

	if c.corrupt[employeeID] {
		return models.CacheEntry{}, apperr.ErrCorruptCacheEntry.Wrap(errInjected)
	}

	return c.entries[employeeID], nil
}

func (c *MemoryCache) SaveCheckIn(employeeID string, at time.Time) error {
	return c.write(employeeID, func(e *models.CacheEntry) {
		e.CheckInAt = at
	})
}

func (c *MemoryCache) CloseSession(
	employeeID string,
	total time.Duration,
	day string,
) error {
	return c.write(employeeID, func(e *models.CacheEntry) {
		e.CheckInAt = time.Time{}
		e.AccumulatedTotal = total.Truncate(time.Minute)
		e.TotalDay = day
	})
}

func (c *MemoryCache) Clear(employeeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailWrite {
		return apperr.ErrStoreUnavailable.Wrap(errInjected)
	}

	delete(c.entries, employeeID)
	delete(c.corrupt, employeeID)

	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

func (c *MemoryCache) write(employeeID string, fn func(e *models.CacheEntry)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if employeeID == "" {
		return apperr.ErrMissingIdentity
	}

	if c.FailWrite {
		return apperr.ErrStoreUnavailable.Wrap(errInjected)
	}

	var e models.CacheEntry
	if !c.corrupt[employeeID] {
		e = c.entries[employeeID]
	}

	fn(&e)

	c.entries[employeeID] = e
	delete(c.corrupt, employeeID)

	return nil
}
