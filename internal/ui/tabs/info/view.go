package info

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tsforecast-tui/internal/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
	"github.com/j-veylop/tsforecast-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDataCard(),
		m.renderAboutCard(),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, storage and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(50, min(m.width-6, 80))
}

// renderConfigCard renders the active configuration.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))

	if m.config != nil {
		rows = append(rows, renderRow("Database", m.config.DatabasePath))
		rows = append(rows, renderRow("Log File", m.config.LogFile))
		rows = append(rows, renderRow("Log Level", m.config.LogLevel))
		rows = append(rows, renderRow("Default Horizon", strconv.Itoa(m.config.DefaultHorizon)))
		rows = append(rows, renderRow("Watch Database", m.watchStatus()))

		alert := "off"
		if m.config.AlertEnabled {
			alert = "above " + components.FormatValue(m.config.ForecastAlertAbove)
		}
		rows = append(rows, renderRow("Forecast Alert", alert))
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "")
	rows = append(rows, styles.HelpStyle.Render("Press 'c' to copy the database path"))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) watchStatus() string {
	switch {
	case m.watching:
		return styles.SuccessTextStyle.Render("active")
	case m.config != nil && m.config.WatchDatabase:
		return styles.WarningTextStyle.Render("unavailable")
	default:
		return "off"
	}
}

// renderDataCard summarises the stored series.
func (m *Model) renderDataCard() string {
	obs := m.state.GetObservations()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Series"))
	rows = append(rows, renderRow("Observations", styles.InfoTextStyle.Render(strconv.Itoa(len(obs)))))

	if len(obs) > 0 {
		rows = append(rows, renderRow("First Month", obs[0].Date.Label()))
		rows = append(rows, renderRow("Last Month", obs[len(obs)-1].Date.Label()))
	}
	rows = append(rows, renderRow("Model", "ARIMA(1,1,1)"))
	rows = append(rows, renderRow("Min Observations", strconv.Itoa(forecast.MinObservations)))
	rows = append(rows, renderRow("Horizon", strconv.Itoa(m.state.GetHorizon())))

	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		rows = append(rows, renderRow("Last Reload", updated.Format("15:04:05")))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About "+version.Name))

	rows = append(rows, renderRow("Version", version.GetVersion()))
	rows = append(rows, renderRow("Build Date", version.GetDate()))
	rows = append(rows, renderRow("Git Commit", version.GetCommit()))
	rows = append(rows, renderRow("Go Version", runtime.Version()))
	rows = append(rows, renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	return styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value)
}
