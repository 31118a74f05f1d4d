package store

import "github.com/ayoisaiah/attend/internal/apperr"

var (
	errStoreLocked = &apperr.Error{
		Message: "is attend already running? the event log at %s is locked by another process",
	}

	errOutOfOrder = &apperr.Error{
		Message: "cannot record %s for employee %s: the latest event is %s",
	}

	errFirstCheckOut = &apperr.Error{
		Message: "cannot record %s for employee %s: there is no preceding check-in",
	}

	errUnknownKind = &apperr.Error{
		Message: "unknown event kind: %q",
	}

	errCorruptRecord = &apperr.Error{
		Message: "corrupt event record %s for employee %s",
	}
)
