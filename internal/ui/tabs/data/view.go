package data

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

// sideBySideWidth is the narrowest terminal that fits table and chart in one row.
const sideBySideWidth = 100

// View renders the data tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	sections := []string{m.renderTitle()}

	switch m.mode {
	case modeAdd:
		sections = append(sections, m.renderAddForm())
	case modeEdit:
		sections = append(sections, m.renderEditForm())
	case modeConfirmDelete:
		sections = append(sections, m.renderDeleteConfirm(), m.renderBody())
	default:
		sections = append(sections, m.renderBody())
	}

	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Observations")

	obs := m.state.GetObservations()
	summary := fmt.Sprintf("%d months recorded", len(obs))
	if len(obs) > 0 {
		summary += fmt.Sprintf(" · %s to %s", obs[0].Date.Label(), obs[len(obs)-1].Date.Label())
	}
	subtitle := styles.HelpStyle.Render(summary)

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderBody() string {
	obs := m.state.GetObservations()
	if len(obs) == 0 {
		return m.renderEmptyState()
	}

	tableCard := styles.CardStyle.Render(m.table.View())
	chartCard := m.renderChart(obs)

	if m.width >= sideBySideWidth {
		return lipgloss.JoinHorizontal(lipgloss.Top, tableCard, " ", chartCard)
	}
	return lipgloss.JoinVertical(lipgloss.Left, tableCard, chartCard)
}

func (m *Model) tableWidth() int {
	if m.width >= sideBySideWidth {
		return max(30, m.width/3)
	}
	return max(30, m.width-10)
}

func (m *Model) chartWidth() int {
	if m.width >= sideBySideWidth {
		return max(20, m.width-m.tableWidth()-24)
	}
	return max(20, m.width-20)
}

// renderChart plots the actual values indexed by month.
func (m *Model) renderChart(obs []models.Observation) string {
	values := models.Values(obs)
	width := m.chartWidth()
	height := max(3, min(12, m.height-16))

	chart := components.RenderLineChart(values, width, height, "Actual values", components.ChartActualColor)

	months := make([]models.Month, len(obs))
	for i, o := range obs {
		months[i] = o.Date
	}
	axis := components.RenderMonthAxis(months, width, components.ChartOffset(chart, width))

	trend := styles.HelpStyle.Render("Trend ") +
		styles.ActualStyle.Render(components.RenderSparkline(values, min(len(values), 40)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Series"),
		chart,
		axis,
		"",
		trend,
	)
	return styles.ChartCardStyle.Render(content)
}

func (m *Model) renderEmptyState() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No observations yet"),
		"",
		styles.HelpStyle.Render("Record one value per month to build the series."),
		"",
		styles.InfoTextStyle.Render("Press 'a' to add the first month"),
		"",
	)

	return styles.CardStyle.Width(max(40, m.width-6)).Render(content)
}

func (m *Model) formWidth() int {
	return max(50, min(m.width-10, 70))
}

func (m *Model) renderAddForm() string {
	cardWidth := m.formWidth()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Add Observation"))

	rows = append(rows, fieldLabel("Month (YYYY-MM):", m.focusedField == fieldDate))
	rows = append(rows, fieldBox(m.focusedField == fieldDate).Width(cardWidth-10).Render(m.dateInput.View()))
	rows = append(rows, "")

	rows = append(rows, fieldLabel("Value:", m.focusedField == fieldValue))
	rows = append(rows, fieldBox(m.focusedField == fieldValue).Width(cardWidth-10).Render(m.valueInput.View()))
	rows = append(rows, "")

	if m.formErr != "" {
		rows = append(rows, styles.ErrorTextStyle.Render(m.formErr), "")
	}

	rows = append(rows, styles.HelpStyle.Render("Tab: next field | Enter: save | Esc: cancel"))

	return styles.ModalContentStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderEditForm() string {
	cardWidth := m.formWidth()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Edit "+m.editDate))
	rows = append(rows, fieldLabel("New value:", true))
	rows = append(rows, fieldBox(true).Width(cardWidth-10).Render(m.editInput.View()))
	rows = append(rows, "")

	if m.formErr != "" {
		rows = append(rows, styles.ErrorTextStyle.Render(m.formErr), "")
	}

	rows = append(rows, styles.HelpStyle.Render("Enter: save | Esc: cancel"))

	return styles.ModalContentStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return styles.FocusedStyle.Render("> " + label)
	}
	return styles.BlurredStyle.Render("  " + label)
}

func fieldBox(focused bool) lipgloss.Style {
	if focused {
		return styles.FocusedBorderStyle
	}
	return styles.BlurredBorderStyle
}

func (m *Model) renderDeleteConfirm() string {
	target := ""
	if m.pendingLast != nil {
		target = fmt.Sprintf("%s = %s", m.pendingLast.Date, components.FormatValue(m.pendingLast.Value))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.WarningTextStyle.Bold(true).Render("Delete last entry?"),
		"",
		"The most recently added observation will be removed:",
		styles.ErrorTextStyle.Render(target),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ButtonActiveStyle.Render(" (Y)es "),
			"  ",
			styles.ButtonInactiveStyle.Render(" (N)o "),
		),
		"",
	)

	return styles.CenterHorizontal(
		styles.ModalContentStyle.Width(56).Render(content),
		m.width,
	)
}

func (m *Model) renderFooter() string {
	var shortcuts []string

	switch m.mode {
	case modeAdd:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Tab") + " next",
			styles.HelpKeyStyle.Render("Enter") + " save",
			styles.HelpKeyStyle.Render("Esc") + " cancel",
		}
	case modeEdit:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Enter") + " save",
			styles.HelpKeyStyle.Render("Esc") + " cancel",
		}
	case modeConfirmDelete:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Y") + " confirm",
			styles.HelpKeyStyle.Render("N") + " cancel",
		}
	default:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("a") + " add",
			styles.HelpKeyStyle.Render("e") + " edit",
			styles.HelpKeyStyle.Render("x") + " delete last",
			styles.HelpKeyStyle.Render("r") + " reload",
		}
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(strings.Join(shortcuts, styles.HelpSeparatorStyle.Render(" | ")))
}
