package attendance

import "github.com/ayoisaiah/attend/internal/apperr"

var (
	errAlreadyCheckedIn = &apperr.Error{
		Message: "employee %s is already checked in (since %s)",
	}

	errNotCheckedIn = &apperr.Error{
		Message: "employee %s is not checked in",
	}

	errHookParse = &apperr.Error{
		Message: "unable to parse the settings.cmd option",
	}
)
