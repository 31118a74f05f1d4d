package stats

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/timeutil"
	"github.com/ayoisaiah/attend/internal/ui"
)

const barChartChar = "▇"

// Print writes the summary, the daily breakdown and the session list of r.
func (r *Report) Print(w io.Writer) {
	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		WithFullWidth(false).
		Sprintfln("Attendance of %s %s", r.Employee, r.rangeLabel())

	fmt.Fprintln(w, header)

	if r.Summary.Sessions == 0 {
		pterm.Fprintln(w, pterm.Info.Sprint(noSessionsMsg))
		return
	}

	fmt.Fprint(w, r.summaryText())
	fmt.Fprint(w, r.barChart())
	fmt.Fprintln(w)

	printSessionsTable(w, r.DailyHours)
}

func (r *Report) rangeLabel() string {
	from, to := "the beginning", "now"

	if !r.Range.From.IsZero() {
		from = r.Range.From.Format("January 02, 2006")
	}

	if !r.Range.To.IsZero() {
		to = r.Range.To.Format("January 02, 2006")
	}

	return fmt.Sprintf("(%s - %s)", from, to)
}

func (r *Report) summaryText() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s\n", ui.Blue("Summary")))
	b.WriteString(fmt.Sprintf("Total hours: %s\n", ui.Green(r.Summary.TotalHoursString())))
	b.WriteString(fmt.Sprintf(
		"Average per session: %s\n",
		ui.Paint(r.TrendColor, fmt.Sprintf("%.2f hrs", r.Summary.AverageHours)),
	))
	b.WriteString(fmt.Sprintf("Sessions: %s\n", ui.Green(r.Summary.Sessions)))
	b.WriteString(fmt.Sprintf("Full days: %s\n", ui.Green(r.Summary.FullDays)))
	b.WriteString(fmt.Sprintf("Half days: %s\n", ui.Green(r.Summary.HalfDays)))
	b.WriteString(fmt.Sprintf("Leaves: %s\n", ui.Red(r.Summary.Leaves)))

	return b.String()
}

// barChart renders the minutes worked on each day.
func (r *Report) barChart() string {
	perDay := make(map[string]float64)

	var days []string

	for _, s := range r.DailyHours {
		if _, ok := perDay[s.Date]; !ok {
			days = append(days, s.Date)
		}

		perDay[s.Date] += s.Hours
	}

	slices.Sort(days)

	bars := make(pterm.Bars, 0, len(days))

	for _, d := range days {
		label := d
		if t, err := time.Parse(timeutil.DayLayout, d); err == nil {
			label = t.Format("Jan 02, 2006")
		}

		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(perDay[d] * 60),
			Label: label,
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return ui.Blue("\nDaily breakdown (minutes)") + chart
}

// PrintCalendar writes a month grid for every month of the report, with each
// marked day painted in its status colour.
func (r *Report) PrintCalendar(w io.Writer) {
	if len(r.Calendar) == 0 {
		pterm.Fprintln(w, pterm.Info.Sprint(noSessionsMsg))
		return
	}

	days := make([]string, 0, len(r.Calendar))
	for d := range r.Calendar {
		days = append(days, d)
	}

	slices.Sort(days)

	first, err := time.Parse(timeutil.DayLayout, days[0])
	if err != nil {
		return
	}

	last, err := time.Parse(timeutil.DayLayout, days[len(days)-1])
	if err != nil {
		return
	}

	month := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)

	for !month.After(last) {
		fmt.Fprintln(w, renderMonth(month, r.Calendar))
		month = month.AddDate(0, 1, 0)
	}

	fmt.Fprintln(w, legend(r.Calendar))
}

func renderMonth(month time.Time, cal models.Calendar) string {
	var b strings.Builder

	b.WriteString(ui.Blue(month.Format("January 2006")) + "\n")
	b.WriteString("Su Mo Tu We Th Fr Sa\n")

	b.WriteString(strings.Repeat("   ", int(month.Weekday())))

	for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%2d", d.Day())

		if mark, ok := cal[d.Format(timeutil.DayLayout)]; ok && mark.Selected {
			cell = ui.Swatch(mark.Color, cell)
		}

		b.WriteString(cell)

		if d.Weekday() == time.Saturday {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	return b.String()
}

func legend(cal models.Calendar) string {
	colors := make(map[models.Status]string)
	for _, mark := range cal {
		colors[mark.Status] = mark.Color
	}

	parts := make([]string, 0, len(colors))

	for _, s := range []models.Status{models.FullDay, models.HalfDay, models.Leave} {
		c, ok := colors[s]
		if !ok {
			continue
		}

		parts = append(parts, ui.Paint(c, "■ "+string(s)))
	}

	return "\n" + strings.Join(parts, "  ")
}
