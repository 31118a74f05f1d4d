package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
 █████╗ ████████╗████████╗███████╗███╗   ██╗██████╗
██╔══██╗╚══██╔══╝╚══██╔══╝██╔════╝████╗  ██║██╔══██╗
███████║   ██║      ██║   █████╗  ██╔██╗ ██║██║  ██║
██╔══██║   ██║      ██║   ██╔══╝  ██║╚██╗██║██║  ██║
██║  ██║   ██║      ██║   ███████╗██║ ╚████║██████╔╝
╚═╝  ╚═╝   ╚═╝      ╚═╝   ╚══════╝╚═╝  ╚═══╝╚═════╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	EmployeeID string
	Backend    string
}

// WithPromptConfig returns an Option that configures settings via interactive
// prompts. The prompt only runs the first time, before the config file
// exists, and is skipped if an employee id is already known.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if c.Employee.ID != "" || os.Getenv(envPrefix+"_EMPLOYEE_ID") != "" {
			return nil
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		applyPromptOptions(c, opts)

		return nil
	}
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	var opts PromptOptions

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure attend for the first time.
Edit the config file with 'attend edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Employee ID").
				Description("Sessions are recorded under this identifier").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("employee id cannot be empty")
					}

					return nil
				}).
				Value(&opts.EmployeeID),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should attendance events be stored?").
				Options(
					huh.NewOption("Local file", BackendBolt).Selected(true),
					huh.NewOption("PostgreSQL", BackendPostgres),
				).
				Value(&opts.Backend),
		),
	)

	err := form.Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) {
	c.Employee.ID = strings.TrimSpace(opts.EmployeeID)
	c.Store.Backend = opts.Backend
}
