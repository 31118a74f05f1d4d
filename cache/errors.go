package cache

import "github.com/ayoisaiah/attend/internal/apperr"

var (
	errCacheLocked = &apperr.Error{
		Message: "is attend already running? the session cache at %s is locked by another process",
	}

	errCorruptValue = &apperr.Error{
		Message: "%s of employee %s holds an unreadable value: %q",
	}
)
