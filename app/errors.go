package app

import (
	"errors"

	"github.com/ayoisaiah/attend/internal/apperr"
)

var (
	errNoEnv = errors.New("attend was not initialized")

	errNoEmployee = errors.New(
		"set one with --employee, ATTEND_EMPLOYEE_ID or 'attend edit-config'",
	)

	errInvalidDateRange = &apperr.Error{
		Message: "the end date (%s) must not be earlier than the start date (%s)",
	}

	errInvalidDate = &apperr.Error{
		Message: "unable to parse %s date %q",
	}
)
