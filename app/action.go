package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/attend/attendance"
	"github.com/ayoisaiah/attend/internal/apperr"
	"github.com/ayoisaiah/attend/internal/config"
	"github.com/ayoisaiah/attend/internal/logging"
	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/osutil"
	"github.com/ayoisaiah/attend/internal/pathutil"
	"github.com/ayoisaiah/attend/internal/status"
	"github.com/ayoisaiah/attend/internal/timeutil"
	"github.com/ayoisaiah/attend/internal/ui"
	"github.com/ayoisaiah/attend/stats"
	"github.com/ayoisaiah/attend/watch"
)

const defaultStatsPeriod = 7 * 24 * time.Hour

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// statusReport is the output of the status command.
type statusReport struct {
	CheckInAt time.Time        `json:"check_in_at,omitzero"`
	Employee  string           `json:"employee"`
	State     attendance.State `json:"state"`
	Projected models.Status    `json:"projected_status,omitempty"`
	Elapsed   string           `json:"elapsed"`
	Today     string           `json:"today_total"`
	Verified  bool             `json:"verified"`
}

func newStatusReport(
	id string,
	s attendance.Session,
	now time.Time,
	loc *time.Location,
) statusReport {
	elapsed := s.Elapsed(now)

	r := statusReport{
		CheckInAt: s.CheckInAt,
		Employee:  id,
		State:     s.State,
		Elapsed:   timeutil.FormatElapsed(elapsed),
		Today:     timeutil.FormatTotal(s.TotalOn(now, loc) + elapsed),
		Verified:  s.Verified,
	}

	if s.State == attendance.CheckedIn {
		r.Projected = status.Classify(elapsed)
	}

	return r
}

func printStatus(
	w io.Writer,
	r statusReport,
	p status.Palette,
	loc *time.Location,
	layout string,
) {
	state := "not checked in"
	if r.State == attendance.CheckedIn {
		state = "checked in since " + r.CheckInAt.In(loc).Format(layout)
	}

	if !r.Verified {
		state += " " + ui.Red("[unverified]")
	}

	elapsed := r.Elapsed
	if r.Projected != "" {
		elapsed += " " + ui.Paint(p.Color(r.Projected), "("+string(r.Projected)+")")
	}

	fmt.Fprintf(w, "%s %s\n", pterm.Bold.Sprint("Employee:"), r.Employee)
	fmt.Fprintf(w, "%s %s\n", pterm.Bold.Sprint("State:   "), state)
	fmt.Fprintf(w, "%s %s\n", pterm.Bold.Sprint("Elapsed: "), elapsed)
	fmt.Fprintf(w, "%s %s\n", pterm.Bold.Sprint("Today:   "), r.Today)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

// checkedInText describes a successful check-in.
func checkedInText(s attendance.Session, loc *time.Location, layout string) string {
	return fmt.Sprintf(
		"%s checked in at %s",
		s.EmployeeID,
		s.CheckInAt.In(loc).Format(layout),
	)
}

// checkedOutText describes a successful check-out.
func checkedOutText(s attendance.Session, p status.Palette, loc *time.Location, layout string) string {
	ev := s.LastCheckOut
	if ev == nil {
		return s.EmployeeID + " checked out"
	}

	return fmt.Sprintf(
		"%s checked out at %s after %s %s. Today: %s",
		s.EmployeeID,
		ev.OccurredAt.In(loc).Format(layout),
		timeutil.FormatElapsed(ev.Duration),
		ui.Paint(p.Color(ev.Status), "("+string(ev.Status)+")"),
		ev.TotalTime,
	)
}

// resolveRange converts the --since, --until and --all flags into a report
// range relative to now.
func resolveRange(since, until string, all bool, now time.Time) (stats.Range, error) {
	var r stats.Range

	if all {
		return r, nil
	}

	if since == "" {
		r.From = timeutil.RoundToStart(now.Add(-defaultStatsPeriod))
	} else {
		t, err := timeutil.FromStr(since, now)
		if err != nil {
			return r, errInvalidDate.Fmt("start", since).Wrap(err)
		}

		r.From = timeutil.RoundToStart(t)
	}

	if until != "" {
		t, err := timeutil.FromStr(until, now)
		if err != nil {
			return r, errInvalidDate.Fmt("end", until).Wrap(err)
		}

		r.To = timeutil.RoundToEnd(t)

		if r.To.Before(r.From) {
			return r, errInvalidDateRange.Fmt(
				timeutil.DayKey(r.To, now.Location()),
				timeutil.DayKey(r.From, now.Location()),
			)
		}
	}

	return r, nil
}

func printEmployees(w io.Writer, ids []string) {
	if len(ids) == 0 {
		pterm.Fprintln(w, pterm.Info.Sprint("No attendance has been recorded yet"))
		return
	}

	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}

// checkinAction handles the checkin command which opens a session for the
// configured employee.
func checkinAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	m, err := e.tracker(ctx.Context)
	if err != nil {
		return err
	}

	s, err := m.CheckIn(ctx.Context, e.cfg.Employee.ID)
	if err != nil {
		return err
	}

	pterm.Success.Println(checkedInText(s, e.cfg.Location(), e.cfg.TimeFormat()))

	return nil
}

// confirmCheckOut asks the user whether the open session should be closed.
func confirmCheckOut(s attendance.Session, now time.Time) (bool, error) {
	ok := true

	err := huh.NewConfirm().
		Title("Check out now?").
		Description(fmt.Sprintf(
			"You have been checked in for %s",
			timeutil.FormatElapsed(s.Elapsed(now)),
		)).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()

	return ok, err
}

// checkoutAction handles the checkout command which closes the open session
// of the configured employee.
func checkoutAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	m, err := e.tracker(ctx.Context)
	if err != nil {
		return err
	}

	id := e.cfg.Employee.ID

	if ctx.Bool("confirm") {
		s, _ := m.Snapshot(id)
		if s.State == attendance.CheckedIn {
			ok, err := confirmCheckOut(s, time.Now())
			if err != nil {
				return err
			}

			if !ok {
				return nil
			}
		}
	}

	s, err := m.CheckOut(ctx.Context, id)
	if err != nil {
		return err
	}

	pterm.Success.Println(
		checkedOutText(s, e.palette(), e.cfg.Location(), e.cfg.TimeFormat()),
	)

	return nil
}

// statusAction handles the status command and prints the state of the
// current session.
func statusAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	m, err := e.tracker(ctx.Context)
	if err != nil {
		return err
	}

	s, _ := m.Snapshot(e.cfg.Employee.ID)
	r := newStatusReport(e.cfg.Employee.ID, s, time.Now(), e.cfg.Location())

	if ctx.Bool("json") {
		return printJSON(os.Stdout, r)
	}

	printStatus(os.Stdout, r, e.palette(), e.cfg.Location(), e.cfg.TimeFormat())

	return nil
}

// watchAction handles the watch command which displays a live timer.
func watchAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	m, err := e.tracker(ctx.Context)
	if err != nil {
		return err
	}

	return watch.Run(ctx.Context, m, watch.Options{
		Location:       e.cfg.Location(),
		Palette:        e.palette(),
		EmployeeID:     e.cfg.Employee.ID,
		TwentyFourHour: e.cfg.Settings.TwentyFourHour,
	})
}

// computeReport builds the report of the configured employee for the range
// selected on the command-line.
func computeReport(ctx *cli.Context, e *env) (*stats.Report, error) {
	if e.cfg.Employee.ID == "" {
		return nil, apperr.ErrMissingIdentity.Wrap(errNoEmployee)
	}

	loc := e.cfg.Location()

	r, err := resolveRange(
		ctx.String("since"),
		ctx.String("until"),
		ctx.Bool("all"),
		time.Now().In(loc),
	)
	if err != nil {
		return nil, err
	}

	l, err := e.eventLog(ctx.Context)
	if err != nil {
		return nil, err
	}

	report, err := stats.Compute(ctx.Context, l, e.cfg.Employee.ID, r, loc)
	if err != nil {
		return nil, err
	}

	report.Recolor(e.palette())

	return report, nil
}

// statsAction computes the statistics of the configured employee for the
// specified time period.
func statsAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	report, err := computeReport(ctx, e)
	if err != nil {
		return err
	}

	switch {
	case ctx.Bool("json"):
		return printJSON(os.Stdout, report)
	case ctx.Bool("calendar"):
		report.PrintCalendar(os.Stdout)
	default:
		report.Print(os.Stdout)
	}

	return nil
}

// calendarAction prints the attendance calendar of the configured employee.
func calendarAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	report, err := computeReport(ctx, e)
	if err != nil {
		return err
	}

	report.PrintCalendar(os.Stdout)

	return nil
}

// employeesAction lists the employees found in the event log.
func employeesAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	l, err := e.eventLog(ctx.Context)
	if err != nil {
		return err
	}

	ids, err := l.Employees(ctx.Context)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(os.Stdout, ids)
	}

	printEmployees(os.Stdout, ids)

	return nil
}

// serveAction serves the performance feed until the process is interrupted.
func serveAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	l, err := e.eventLog(ctx.Context)
	if err != nil {
		return err
	}

	port := e.cfg.Server.Port
	if ctx.IsSet("port") {
		port = ctx.Uint("port")
	}

	pterm.Info.Printfln("Serving the performance feed on http://localhost:%d/api/v1", port)

	return stats.Serve(ctx.Context, l, stats.ServerOptions{
		Logger:         e.logger,
		Location:       e.cfg.Location(),
		Palette:        e.palette(),
		AllowedOrigins: e.cfg.Server.AllowedOrigins,
		Port:           port,
	})
}

// editConfigAction handles the edit-config command which opens the attend
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		return err
	}

	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.CommandContext(ctx.Context, editor, e.cfg.System.ConfigPath)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

// styleOutput configures the pterm printers and honours the colour opt-outs.
func styleOutput(ctx *cli.Context) {
	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	if _, exists := os.LookupEnv(osutil.EnvNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(osutil.EnvAttendNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	styleOutput(ctx)

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	// help and version output do not need a config
	if ctx.Args().Len() == 0 || ctx.Args().First() == "help" {
		return nil
	}

	cfg, err := config.New(
		config.WithSystemPaths(config.SystemConfig{
			ConfigPath: pathutil.ConfigFilePath(),
			EnvPath:    pathutil.EnvFilePath(),
			EventsPath: pathutil.EventsFilePath(),
			CachePath:  pathutil.CacheFilePath(),
			LogPath:    pathutil.LogFilePath(),
		}),
		config.WithEnvFile(pathutil.EnvFilePath()),
		config.WithPromptConfig(pathutil.ConfigFilePath()),
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.System.LogPath, cfg.Log.Level)
	if err != nil {
		return err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	logger.DebugContext(
		ctx.Context,
		"starting attend",
		"command", ctx.Args().First(),
		"config", logging.Dump(cfg),
	)

	ctx.App.Metadata = map[string]any{
		envKey: &env{
			cfg:     cfg,
			logger:  logger,
			closers: []io.Closer{closer},
		},
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	e, err := fromContext(ctx)
	if err != nil {
		// nothing was initialized
		return nil
	}

	e.logger.InfoContext(ctx.Context, "exiting attend")

	return e.Close()
}
