package config

import (
	"fmt"
	"io"
	"os"
	"time"
)

type (
	// Config holds all configuration settings
	Config struct {
		Employee EmployeeConfig `mapstructure:"employee"`
		Store    StoreConfig    `mapstructure:"store"`
		Settings SettingsConfig `mapstructure:"settings"`
		Display  DisplayConfig  `mapstructure:"display"`
		Server   ServerConfig   `mapstructure:"server"`
		Log      LogConfig      `mapstructure:"log"`
		System   SystemConfig   `mapstructure:"-"`
	}

	// EmployeeConfig identifies whose sessions are tracked.
	EmployeeConfig struct {
		ID string `mapstructure:"id"`
	}

	// StoreConfig selects the event log backend.
	StoreConfig struct {
		Backend     string `mapstructure:"backend"`
		DatabaseURL string `mapstructure:"database_url"`
	}

	// SettingsConfig holds behaviour settings.
	SettingsConfig struct {
		Timezone       string `mapstructure:"timezone"`
		Cmd            string `mapstructure:"cmd"`
		TwentyFourHour bool   `mapstructure:"24hr_clock"`
	}

	// DisplayConfig holds display-related settings
	DisplayConfig struct {
		FullDayColor string `mapstructure:"full_day_color"`
		HalfDayColor string `mapstructure:"half_day_color"`
		LeaveColor   string `mapstructure:"leave_color"`
		DarkTheme    bool   `mapstructure:"dark_theme"`
	}

	// ServerConfig holds settings for the HTTP feed.
	ServerConfig struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
		Port           uint     `mapstructure:"port"`
	}

	// LogConfig holds logging settings.
	LogConfig struct {
		Level string `mapstructure:"level"`
	}

	// SystemConfig holds file locations. It is not read from the config file.
	SystemConfig struct {
		ConfigPath string
		EnvPath    string
		EventsPath string
		CachePath  string
		LogPath    string
	}

	// Option is a function that modifies Config
	Option func(*Config) error
)

const Version = "v0.3.0"

// Event log backends.
const (
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// New creates a new Config with default values and applies options
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// WithSystemPaths sets the file locations used by the application.
func WithSystemPaths(sys SystemConfig) Option {
	return func(c *Config) error {
		c.System = sys

		return nil
	}
}

// Location returns the configured timezone, or the local timezone when none
// is set.
func (c *Config) Location() *time.Location {
	if c.Settings.Timezone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(c.Settings.Timezone)
	if err != nil {
		return time.Local
	}

	return loc
}

// TimeFormat returns the clock layout used for printing times.
func (c *Config) TimeFormat() string {
	if c.Settings.TwentyFourHour {
		return "15:04:05"
	}

	return "03:04:05 PM"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"employee=%q backend=%s timezone=%q",
		c.Employee.ID,
		c.Store.Backend,
		c.Settings.Timezone,
	)
}
