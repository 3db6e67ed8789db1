package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Render writes the report as a text table followed by totals.
func Render(w io.Writer, report Report) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODEL", "DATASET", "DOMAINS", "RUNS", "SUCCESS", "RATE", "TIMEOUTS", "MEAN(s)", "STDDEV(s)")
	for _, row := range report.Rows {
		t.Row(
			row.Model,
			string(row.Dataset),
			strconv.Itoa(row.DomainNum),
			strconv.Itoa(row.Runs),
			strconv.Itoa(row.Successes),
			formatRate(row.SuccessRate()),
			strconv.Itoa(row.TimedOut),
			formatSeconds(row.MeanDuration),
			formatSeconds(row.StdDevDuration),
		)
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Summaries: %d  Total: %d  Success: %d  Failed: %d  Interrupted: %d\n",
		report.Summaries, report.Total, report.Success, report.Failed, report.Interrupted)
	return err
}

// formatRate returns a percentage string for report output.
func formatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}
