package store

import (
	"errors"

	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/models"
)

// checkAppend verifies that next may follow last in an employee's log. last
// is nil when the log is empty.
func checkAppend(last *models.AttendanceEvent, next models.AttendanceEvent) error {
	if next.EmployeeID == "" {
		return apperr.ErrMissingIdentity
	}

	if !next.Kind.Valid() {
		return errUnknownKind.Fmt(next.Kind).Wrap(apperr.ErrInvalidState)
	}

	if last == nil {
		if next.Kind == models.CheckOut {
			return errFirstCheckOut.Fmt(next.Kind, next.EmployeeID).
				Wrap(apperr.ErrInvalidState)
		}

		return nil
	}

	if last.Kind == next.Kind {
		return errOutOfOrder.Fmt(next.Kind, next.EmployeeID, last.Kind).
			Wrap(apperr.ErrInvalidState)
	}

	return nil
}

// isCallerError reports whether err should be returned as is rather than
// wrapped as a store failure.
func isCallerError(err error) bool {
	return errors.Is(err, apperr.ErrInvalidState) ||
		errors.Is(err, apperr.ErrMissingIdentity)
}
