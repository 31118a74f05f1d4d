package store

import (
	"context"
	"time"

	"github.com/ayoisaiah/attend/internal/models"
)

// EventLog is the append-only store of attendance events. It is the source of
// truth for every employee's session state.
type EventLog interface {
	// Append stores ev after the employee's latest event and returns it with
	// its ID and RecordedAt set. An event that would break the alternation of
	// check-ins and check-outs is rejected with apperr.ErrInvalidState.
	Append(ctx context.Context, ev models.AttendanceEvent) (models.AttendanceEvent, error)
	// Latest returns up to n of the employee's most recent events in
	// chronological order
	Latest(ctx context.Context, employeeID string, n int) ([]models.AttendanceEvent, error)
	// Walk calls fn for each event recorded within [from, to] in chronological
	// order. A zero bound is open. Iteration stops at the first error
	// returned by fn.
	Walk(
		ctx context.Context,
		employeeID string,
		from, to time.Time,
		fn func(models.AttendanceEvent) error,
	) error
	// Employees returns the identifiers of every employee with at least one
	// event, in natural order
	Employees(ctx context.Context) ([]string, error)
	// Close releases the underlying connection
	Close() error
}
