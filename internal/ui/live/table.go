package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the column layout for narrow terminals.
func defaultColumns() []table.Column {
	return columnsForWidth(0)
}

// columnsForWidth sizes columns to the terminal width.
func columnsForWidth(width int) []table.Column {
	modelWidth := 12
	statusWidth := 18
	if width > 100 {
		modelWidth = 16
		statusWidth = 24
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Model", Width: modelWidth},
		{Title: "Dataset", Width: 7},
		{Title: "Domains", Width: 7},
		{Title: "LR", Width: 8},
		{Title: "Status", Width: statusWidth},
		{Title: "Time", Width: 10},
	}
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatIndex(row.Index),
			row.Spec.Model,
			string(row.Spec.Dataset),
			fmtInt(row.Spec.DomainNum),
			formatRate(row.LearningRate),
			formatStatus(row, noColor),
			formatRowDuration(row, now),
		})
	}
	return rows
}
