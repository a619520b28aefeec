// Package forecast provides the forecast tab: horizon control, the
// predicted values and the actual-versus-forecast chart.
package forecast

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tsforecast-tui/internal/app"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
)

// maxHorizon caps the horizon the tab will request.
const maxHorizon = 120

const msgBadHorizon = "Horizon must be a whole number from 1 to 120"

// keyMap defines the key bindings specific to the forecast tab.
type keyMap struct {
	Increase    key.Binding
	Decrease    key.Binding
	EditHorizon key.Binding
	Submit      key.Binding
	Escape      key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "longer horizon"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "shorter horizon"),
		),
		EditHorizon: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "type horizon"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the forecast tab state.
type Model struct {
	state    *app.State
	cmds     *app.Commands
	keys     keyMap
	table    table.Model
	viewport viewport.Model
	bar      components.ReadinessBar
	spinner  components.LoadingSpinner

	width  int
	height int

	editing      bool
	horizonInput textinput.Model
	inputErr     string

	revision uint64
}

// New creates a new forecast tab model.
func New(state *app.State, cmds *app.Commands) *Model {
	input := textinput.New()
	input.Placeholder = "12"
	input.CharLimit = 3
	input.Width = 6

	tbl := components.NewTable(components.ObservationColumns(0), 8)
	tbl.Blur()

	m := &Model{
		state:        state,
		cmds:         cmds,
		keys:         defaultKeyMap(),
		table:        tbl,
		viewport:     viewport.New(0, 0),
		bar:          components.NewReadinessBar(30),
		spinner:      components.NewSpinner("Fitting ARIMA(1,1,1)..."),
		horizonInput: input,
	}
	m.syncTable()
	m.spinner.SetResources(state.GetLoadingResources())
	return m
}

// Init initializes the forecast tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Update handles messages for the forecast tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.syncTable()
	m.spinner.SetResources(m.state.GetLoadingResources())

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			cmds = append(cmds, m.updateHorizonInput(msg))
		} else {
			cmds = append(cmds, m.handleKeyMsg(msg))
		}
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.editing {
			m.horizonInput, cmd = m.horizonInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	horizon := m.state.GetHorizon()

	switch {
	case key.Matches(msg, m.keys.Increase):
		if horizon < maxHorizon {
			return m.cmds.SetHorizon(horizon + 1)
		}
	case key.Matches(msg, m.keys.Decrease):
		if horizon > 1 {
			return m.cmds.SetHorizon(horizon - 1)
		}
	case key.Matches(msg, m.keys.EditHorizon):
		m.editing = true
		m.inputErr = ""
		m.horizonInput.SetValue(strconv.Itoa(horizon))
		m.horizonInput.CursorEnd()
		m.horizonInput.Focus()
		return textinput.Blink
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateHorizonInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.stopEditing()
		return nil

	case key.Matches(msg, m.keys.Submit):
		steps, err := parseHorizon(m.horizonInput.Value())
		if err != nil {
			m.inputErr = msgBadHorizon
			return nil
		}
		m.stopEditing()
		return m.cmds.SetHorizon(steps)
	}

	var cmd tea.Cmd
	m.horizonInput, cmd = m.horizonInput.Update(msg)
	return cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.inputErr = ""
	m.horizonInput.Blur()
}

// parseHorizon accepts a whole number of months between 1 and maxHorizon.
func parseHorizon(s string) (int, error) {
	steps, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if steps < 1 || steps > maxHorizon {
		return 0, strconv.ErrRange
	}
	return steps, nil
}

// syncTable rebuilds the forecast rows when a new forecast arrives.
func (m *Model) syncTable() {
	rev := m.state.Revision()
	if rev == m.revision {
		return
	}
	m.revision = rev

	result, _ := m.state.GetForecast()
	if result == nil {
		m.table.SetRows(nil)
		return
	}
	m.table.SetRows(components.ForecastRows(result.Points))
	m.resizeTable()
}

func (m *Model) resizeTable() {
	m.table.SetHeight(min(max(len(m.table.Rows()), 1), max(5, m.height/3)))
}

// SetSize sets the available size for the forecast tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.table.SetColumns(components.ObservationColumns(m.tableWidth()))
	m.bar.SetWidth(min(40, width/3))
	m.resizeTable()
}

func (m *Model) tableWidth() int {
	return max(30, min(44, m.width/3))
}

// InputActive reports whether the horizon field is being edited.
func (m *Model) InputActive() bool {
	return m.editing
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.Submit, m.keys.Escape}
	}
	return []key.Binding{m.keys.Increase, m.keys.Decrease, m.keys.EditHorizon}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Increase, m.keys.Decrease, m.keys.EditHorizon},
		{m.keys.Up, m.keys.Down},
	}
}
