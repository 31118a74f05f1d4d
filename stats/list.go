package stats

import (
	"fmt"
	"io"
	"time"

	"github.com/ayoisaiah/attend/internal/models"
	"github.com/ayoisaiah/attend/internal/timeutil"
	"github.com/ayoisaiah/attend/internal/ui"
)

func statusText(s models.Status) string {
	switch s {
	case models.FullDay:
		return ui.Green(s)
	case models.HalfDay:
		return ui.Magenta(s)
	default:
		return ui.Red(s)
	}
}

// printSessionsTable outputs one row per completed session.
func printSessionsTable(w io.Writer, sessions []SessionHours) {
	tableBody := [][]string{
		{"#", "DATE", "HOURS", "DURATION", "STATUS"},
	}

	for i, sess := range sessions {
		date := sess.Date
		if t, err := time.Parse(timeutil.DayLayout, sess.Date); err == nil {
			date = t.Format("Mon, January 02, 2006")
		}

		d := time.Duration(sess.Hours * float64(time.Hour))

		row := []string{
			fmt.Sprintf("%d", i+1),
			date,
			fmt.Sprintf("%.2f", sess.Hours),
			timeutil.FormatElapsed(d),
			statusText(sess.Status),
		}

		tableBody = append(tableBody, row)
	}

	ui.PrintTable(tableBody, w)
}
