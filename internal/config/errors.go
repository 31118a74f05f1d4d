package config

import "github.com/ayoisaiah/attend/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errReadEnvFile = &apperr.Error{
		Message: "reading env file %s failed",
	}

	errUnknownBackend = &apperr.Error{
		Message: "unknown store backend: %q (must be bolt or postgres)",
	}

	errMissingDatabaseURL = &apperr.Error{
		Message: "the postgres backend requires store.database_url (or ATTEND_STORE_DATABASE_URL)",
	}

	errInvalidColor = &apperr.Error{
		Message: "%s color must be a valid hex color code (e.g. #FF0000), got %s",
	}

	errInvalidTimezone = &apperr.Error{
		Message: "unknown timezone: %s",
	}

	errInvalidPort = &apperr.Error{
		Message: "server port must be between %d and %d, got %d",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "log level must be one of debug, info, warn or error, got %q",
	}
)
