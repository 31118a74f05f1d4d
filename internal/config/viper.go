package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ATTEND"

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyEmployeeID     = "employee.id"
	keyBackend        = "store.backend"
	keyDatabaseURL    = "store.database_url"
	keyTimezone       = "settings.timezone"
	keySessionCmd     = "settings.cmd"
	keyTwentyFourHour = "settings.24hr_clock"
	keyFullDayColor   = "display.full_day_color"
	keyHalfDayColor   = "display.half_day_color"
	keyLeaveColor     = "display.leave_color"
	keyDarkTheme      = "display.dark_theme"
	keyServerPort     = "server.port"
	keyAllowedOrigins = "server.allowed_origins"
	keyLogLevel       = "log.level"
)

// WithViperConfig returns an Option that loads configuration from Viper.
// The config file is created with default values if it does not exist.
// Every key can be overridden through an ATTEND_ prefixed environment
// variable (e.g. ATTEND_EMPLOYEE_ID, ATTEND_STORE_DATABASE_URL).
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setupViper(v, c)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// setupViper configures Viper with defaults and prompt values.
func setupViper(v *viper.Viper, c *Config) {
	v.SetDefault(keyEmployeeID, "")
	v.SetDefault(keyBackend, BackendBolt)
	v.SetDefault(keyDatabaseURL, "")
	v.SetDefault(keyTimezone, "")
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyTwentyFourHour, false)
	v.SetDefault(keyFullDayColor, "#4CAF50")
	v.SetDefault(keyHalfDayColor, "#FFC107")
	v.SetDefault(keyLeaveColor, "#F44336")
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyServerPort, 1111)
	v.SetDefault(keyAllowedOrigins, []string{"http://localhost:3000"})
	v.SetDefault(keyLogLevel, "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// set by the first-run prompt
	if c.Employee.ID != "" {
		v.Set(keyEmployeeID, c.Employee.ID)
	}

	if c.Store.Backend != "" {
		v.Set(keyBackend, c.Store.Backend)
	}
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	sys := c.System

	if err := v.Unmarshal(c); err != nil {
		return errReadConfig.Wrap(err)
	}

	c.System = sys

	return nil
}
