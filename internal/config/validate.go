package config

import (
	"regexp"
	"time"

	"github.com/ayoisaiah/attend/internal/logging"
)

const (
	minPort = 1
	maxPort = 65535
)

// Color format validation.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// Validate performs validation checks on the Config struct and its fields.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateDisplay(); err != nil {
		return err
	}

	if err := c.validateSettings(); err != nil {
		return err
	}

	if c.Server.Port != 0 && (c.Server.Port < minPort || c.Server.Port > maxPort) {
		return errInvalidPort.Fmt(minPort, maxPort, c.Server.Port)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errInvalidLogLevel.Fmt(c.Log.Level)
	}

	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "":
		c.Store.Backend = BackendBolt
	case BackendBolt:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errMissingDatabaseURL
		}
	default:
		return errUnknownBackend.Fmt(c.Store.Backend)
	}

	return nil
}

func (c *Config) validateDisplay() error {
	colors := []struct {
		name  string
		value string
	}{
		{"full day", c.Display.FullDayColor},
		{"half day", c.Display.HalfDayColor},
		{"leave", c.Display.LeaveColor},
	}

	for _, col := range colors {
		if col.value == "" {
			continue
		}

		if !hexColorRegex.MatchString(col.value) {
			return errInvalidColor.Fmt(col.name, col.value)
		}
	}

	return nil
}

func (c *Config) validateSettings() error {
	if c.Settings.Timezone == "" {
		return nil
	}

	if _, err := time.LoadLocation(c.Settings.Timezone); err != nil {
		return errInvalidTimezone.Fmt(c.Settings.Timezone)
	}

	return nil
}
