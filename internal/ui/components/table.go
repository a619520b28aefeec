package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

// NewTable creates a focused table with the dashboard header and selection styles.
func NewTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return t
}

// ObservationColumns returns the Date/Value columns sized to width.
func ObservationColumns(width int) []table.Column {
	valueWidth := max(12, min(width-14, 24))
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Value", Width: valueWidth},
	}
}

// ObservationRows converts observations to table rows.
func ObservationRows(obs []models.Observation) []table.Row {
	rows := make([]table.Row, 0, len(obs))
	for _, o := range obs {
		rows = append(rows, table.Row{o.Date.String(), FormatValue(o.Value)})
	}
	return rows
}

// ForecastRows converts forecast points to table rows.
func ForecastRows(points []models.ForecastPoint) []table.Row {
	rows := make([]table.Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, table.Row{p.Date.String(), FormatValue(p.Value)})
	}
	return rows
}

// FormatValue renders a value with at most four decimals and no trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(roundTo(v, 4), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	s := strconv.FormatFloat(v, 'f', places, 64)
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return r
}
