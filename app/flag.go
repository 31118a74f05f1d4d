package app

import "github.com/urfave/cli/v2"

var (
	employeeFlag = &cli.StringFlag{
		Name:    "employee",
		Aliases: []string{"e"},
		Usage:   "The employee whose attendance is recorded (overrides employee.id)",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	backendFlag = &cli.StringFlag{
		Name:  "backend",
		Usage: "Where attendance events are stored: bolt or postgres",
	}

	databaseURLFlag = &cli.StringFlag{
		Name:  "database-url",
		Usage: "PostgreSQL connection string used by the postgres backend",
	}

	timezoneFlag = &cli.StringFlag{
		Name:    "timezone",
		Aliases: []string{"tz"},
		Usage:   "IANA timezone used to assign sessions to calendar days (e.g. Africa/Lagos)",
	}

	jsonFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "Print the output as JSON",
	}

	confirmFlag = &cli.BoolFlag{
		Name:  "confirm",
		Usage: "Ask for confirmation before checking out",
	}

	sinceFlag = &cli.StringFlag{
		Name:    "since",
		Aliases: []string{"s"},
		Usage:   "Only include sessions recorded on or after this date (e.g. 2025-03-01 or 'last monday'). Defaults to 7 days ago",
	}

	untilFlag = &cli.StringFlag{
		Name:    "until",
		Aliases: []string{"u"},
		Usage:   "Only include sessions recorded on or before this date",
	}

	allFlag = &cli.BoolFlag{
		Name:    "all",
		Aliases: []string{"a"},
		Usage:   "Include every recorded session",
	}

	calendarFlag = &cli.BoolFlag{
		Name:    "calendar",
		Aliases: []string{"c"},
		Usage:   "Show the attendance calendar instead of the session list",
	}

	portFlag = &cli.UintFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Usage:   "Specify the port for the performance feed (overrides server.port)",
	}
)

// rangeFlags are shared by the reporting commands.
func rangeFlags() []cli.Flag {
	return []cli.Flag{sinceFlag, untilFlag, allFlag}
}
