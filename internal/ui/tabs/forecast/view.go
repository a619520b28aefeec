package forecast

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	fc "github.com/j-veylop/tsforecast-tui/internal/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

const (
	comparisonTitle = "Actual vs Forecast"
	emptyMessage    = "No observations yet. Add months on the Data tab to see a forecast."
)

// View renders the forecast tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	sections := []string{m.renderTitle(), m.renderHorizon()}

	obs := m.state.GetObservations()
	if len(obs) == 0 {
		sections = append(sections, m.renderEmpty())
	} else {
		sections = append(sections, m.renderForecast(obs)...)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Forecast")
	subtitle := styles.HelpStyle.Render("ARIMA(1,1,1) fitted on every stored month")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderHorizon() string {
	label := styles.LabelStyle.Render("Horizon")

	var line string
	if m.editing {
		line = label + styles.FocusedBorderStyle.Render(m.horizonInput.View()) +
			styles.HelpStyle.Render("  enter apply · esc cancel")
	} else {
		horizon := m.state.GetHorizon()
		unit := "months"
		if horizon == 1 {
			unit = "month"
		}
		line = label + styles.ValueStyle.Render(fmt.Sprintf("%d %s", horizon, unit)) +
			styles.HelpStyle.Render("  +/- step · h type")
	}

	rows := []string{line}
	if m.inputErr != "" {
		rows = append(rows, styles.ErrorTextStyle.Render(m.inputErr))
	}
	rows = append(rows, "")
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.InfoTextStyle.Render(emptyMessage),
		"",
	)
	return styles.CardStyle.Width(max(40, m.width-6)).Render(content)
}

// renderForecast renders the forecast table and charts, or the reason no
// forecast is available alongside the actual values.
func (m *Model) renderForecast(obs []models.Observation) []string {
	result, err := m.state.GetForecast()

	var sections []string
	if slices.Contains(m.state.GetLoadingResources(), "forecast") {
		sections = append(sections, m.spinner.View(), "")
	}

	if err != nil {
		sections = append(sections, m.renderUnavailable(obs, err), "")
		sections = append(sections, m.renderComparison(obs, nil))
		return sections
	}
	if result == nil || len(result.Points) == 0 {
		sections = append(sections, m.renderComparison(obs, nil))
		return sections
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Predicted"),
			m.table.View(),
		)),
		" ",
		m.renderForecastChart(result),
	)

	sections = append(sections, top, m.renderComparison(obs, result.Points))
	return sections
}

func (m *Model) renderUnavailable(obs []models.Observation, err error) string {
	var insufficient *fc.InsufficientDataError

	switch {
	case errors.As(err, &insufficient):
		msg := "Not enough data to forecast: " + insufficient.Reason
		rows := []string{styles.WarningTextStyle.Render(msg)}
		if len(obs) < fc.MinObservations {
			rows = append(rows, "", m.bar.View(len(obs), fc.MinObservations))
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)

	case errors.Is(err, fc.ErrInvalidHorizon):
		return styles.WarningTextStyle.Render("Horizon must be at least 1 month")

	default:
		return styles.ErrorTextStyle.Render("Forecast failed: " + err.Error())
	}
}

func (m *Model) renderForecastChart(result *models.ForecastResult) string {
	width := max(20, m.width-m.tableWidth()-26)
	chart := components.RenderLineChart(result.Values(), width, 8, "Forecast values", components.ChartForecastColor)

	months := make([]models.Month, len(result.Points))
	for i, p := range result.Points {
		months[i] = p.Date
	}
	axis := components.RenderMonthAxis(months, width, components.ChartOffset(chart, width))

	return styles.ChartCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render(fmt.Sprintf("Next %d months", len(result.Points))),
		chart,
		axis,
	))
}

// renderComparison plots actual values followed by the forecast on one
// month axis.
func (m *Model) renderComparison(obs []models.Observation, points []models.ForecastPoint) string {
	width := max(20, m.width-24)
	height := max(5, min(14, m.height/3))

	forecastValues := make([]float64, len(points))
	months := make([]models.Month, 0, len(obs)+len(points))
	for _, o := range obs {
		months = append(months, o.Date)
	}
	for i, p := range points {
		forecastValues[i] = p.Value
		months = append(months, p.Date)
	}

	chart := components.RenderComparisonChart(models.Values(obs), forecastValues, width, height, "")
	offset := components.ChartOffset(chart, width)

	legend := components.RenderLegend(components.ComparisonLegend)
	if len(points) == 0 {
		legend = components.RenderLegend(components.ComparisonLegend[:1])
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top,
			styles.CardTitleStyle.Render(comparisonTitle),
			"   ",
			legend,
		),
		styles.HelpStyle.Render("Value"),
		strings.TrimRight(chart, "\n"),
		components.RenderMonthAxis(months, width, offset),
		styles.HelpStyle.Render(strings.Repeat(" ", offset+width/2-2)+"Month"),
	)
	return styles.ChartCardStyle.Render(content)
}
