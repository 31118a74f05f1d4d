package app

import (
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/attend/internal/config"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// Get retrieves the attend app instance.
func Get() *cli.App {
	attendApp := &cli.App{
		Name: "attend",
		Usage: `
		Attend records when employees check in and out of work, classifies each
		session as a full day, a half day or leave, and reports attendance
		statistics from the command-line or over HTTP.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:    "checkin",
				Aliases: []string{"in"},
				Usage:   "Start a work session",
				Action:  checkinAction,
			},
			{
				Name:    "checkout",
				Aliases: []string{"out"},
				Usage:   "End the current work session",
				Flags:   []cli.Flag{confirmFlag},
				Action:  checkoutAction,
			},
			{
				Name:   "status",
				Usage:  "Print the state of the current session",
				Flags:  []cli.Flag{jsonFlag},
				Action: statusAction,
			},
			{
				Name:   "watch",
				Usage:  "Display a live timer of the current session",
				Action: watchAction,
			},
			{
				Name: "stats",
				Usage: `
				Track attendance with a summary, daily hours and the list of sessions.
				Defaults to a reporting period of 7 days`,
				Flags:  append(rangeFlags(), jsonFlag, calendarFlag),
				Action: statsAction,
			},
			{
				Name:   "calendar",
				Usage:  "Print the attendance calendar",
				Flags:  rangeFlags(),
				Action: calendarAction,
			},
			{
				Name:   "employees",
				Usage:  "List every employee with recorded sessions",
				Flags:  []cli.Flag{jsonFlag},
				Action: employeesAction,
			},
			{
				Name:   "serve",
				Usage:  "Serve the performance feed over HTTP",
				Flags:  []cli.Flag{portFlag},
				Action: serveAction,
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			employeeFlag,
			backendFlag,
			databaseURLFlag,
			timezoneFlag,
			noColorFlag,
		},
		Before: beforeAction,
		After:  afterAction,
	}

	return attendApp
}
