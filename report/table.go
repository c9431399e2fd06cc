package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const (
	tableTop    = "┌─────────────────────────────────┬─────────────────────────────┐"
	tableMiddle = "├─────────────────────────────────┼─────────────────────────────┤"
	tableBottom = "└─────────────────────────────────┴─────────────────────────────┘"
)

// PrintSummaryTable draws the run statistics as a table with colored counts.
func PrintSummaryTable(w io.Writer, meta RunMeta) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	white := color.New(color.FgWhite)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(w, "║                  API Contract Test Statistics                 ║")
	cyan.Fprintln(w, "╚═══════════════════════════════════════════════════════════════╝")

	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Base URL", meta.BaseURL, white},
		{"Total Tests", fmt.Sprint(meta.Total), white},
		{"Passed", fmt.Sprint(meta.Passed), green},
		{"Failed", fmt.Sprint(meta.Failed), red},
		{"Success Rate", fmt.Sprintf("%.1f%%", meta.SuccessRate), rateColor(meta, green, red)},
		{"Duration", meta.Duration, white},
		{"Started", meta.StartedAt, white},
	}

	fmt.Fprintln(w, tableTop)
	for i, r := range rows {
		fmt.Fprintf(w, "│ %-31s │ ", r.label)
		r.c.Fprintf(w, "%-27s", r.value)
		fmt.Fprintln(w, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(w, tableMiddle)
		}
	}
	fmt.Fprintln(w, tableBottom)

	fmt.Fprintln(w)
	switch {
	case meta.Interrupted:
		color.New(color.FgYellow).Fprintf(w, "! Run interrupted after %d test(s)\n", meta.Total)
	case meta.Total == 0:
		color.New(color.FgYellow).Fprintln(w, "! No tests were run")
	case meta.Failed == 0:
		green.Fprintln(w, "✓ All tests passed!")
	default:
		red.Fprintf(w, "✗ %d of %d test(s) failed\n", meta.Failed, meta.Total)
	}
}

func rateColor(meta RunMeta, good, bad *color.Color) *color.Color {
	if meta.Failed == 0 && meta.Total > 0 {
		return good
	}
	return bad
}
