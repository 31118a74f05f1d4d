package config

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options.
type CLIOptions struct {
	Employee    string
	Backend     string
	DatabaseURL string
	Timezone    string
	Port        uint
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Employee:    ctx.String("employee"),
			Backend:     ctx.String("backend"),
			DatabaseURL: ctx.String("database-url"),
			Timezone:    ctx.String("timezone"),
			Port:        ctx.Uint("port"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config. Empty options leave the
// file or environment values in place.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if id := strings.TrimSpace(opts.Employee); id != "" {
		c.Employee.ID = id
	}

	if opts.Backend != "" {
		c.Store.Backend = strings.ToLower(opts.Backend)
	}

	if opts.DatabaseURL != "" {
		c.Store.DatabaseURL = opts.DatabaseURL
	}

	if opts.Timezone != "" {
		c.Settings.Timezone = opts.Timezone
	}

	if opts.Port > 0 {
		c.Server.Port = opts.Port
	}
}
