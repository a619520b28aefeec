// Package data provides the data tab: the observation table and the forms
// that add, edit and delete observations.
package data

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tsforecast-tui/internal/app"
	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

// formField represents which field is focused in the add form.
type formField int

const (
	fieldDate formField = iota
	fieldValue
)

const (
	msgBadDate  = "Date must be YYYY-MM, for example 2024-03"
	msgBadValue = "Value must be a finite number"
)

// keyMap defines the key bindings specific to the data tab.
type keyMap struct {
	Add        key.Binding
	Edit       key.Binding
	DeleteLast key.Binding
	Up         key.Binding
	Down       key.Binding
	Submit     key.Binding
	NextField  key.Binding
	Escape     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add month"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/enter", "edit value"),
		),
		DeleteLast: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "delete last"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "up", "down"),
			key.WithHelp("tab", "next field"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the data tab state.
type Model struct {
	state *app.State
	cmds  *app.Commands
	table table.Model
	keys  keyMap

	width  int
	height int

	mode         mode
	focusedField formField
	dateInput    textinput.Model
	valueInput   textinput.Model
	editInput    textinput.Model
	editDate     string
	formErr      string
	pendingLast  *models.Observation

	spinner  components.LoadingSpinner
	revision uint64
}

// New creates a new data tab model.
func New(state *app.State, cmds *app.Commands) *Model {
	dateInput := textinput.New()
	dateInput.Placeholder = "YYYY-MM"
	dateInput.CharLimit = 7
	dateInput.Width = 12

	valueInput := textinput.New()
	valueInput.Placeholder = "0.0"
	valueInput.CharLimit = 32
	valueInput.Width = 24

	editInput := textinput.New()
	editInput.CharLimit = 32
	editInput.Width = 24

	m := &Model{
		state:      state,
		cmds:       cmds,
		table:      components.NewTable(components.ObservationColumns(0), 10),
		keys:       defaultKeyMap(),
		dateInput:  dateInput,
		valueInput: valueInput,
		editInput:  editInput,
		spinner:    components.NewSpinner("Loading observations..."),
	}
	m.syncTable()
	return m
}

// Init initializes the data tab.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick())
}

// Update handles messages for the data tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	m.syncTable()

	var spinCmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); !ok {
		m.spinner, spinCmd = m.spinner.Update(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeAdd:
		cmd = m.updateAddForm(msg)
	case modeEdit:
		cmd = m.updateEditForm(msg)
	case modeConfirmDelete:
		cmd = m.updateDeleteConfirm(msg)
	default:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			cmd = m.updateBrowse(keyMsg)
		}
	}

	return m, tea.Batch(spinCmd, cmd)
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Add):
		return m.openAddForm()

	case key.Matches(msg, m.keys.Edit):
		if row := m.table.SelectedRow(); len(row) > 1 {
			return m.openEditForm(row[0], row[1])
		}

	case key.Matches(msg, m.keys.DeleteLast):
		last := lastInserted(m.state.GetObservations())
		if last == nil {
			return m.cmds.NotifyInfo("Nothing to delete")
		}
		m.pendingLast = last
		m.mode = modeConfirmDelete

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}

	return nil
}

func (m *Model) openAddForm() tea.Cmd {
	m.mode = modeAdd
	m.formErr = ""
	m.focusedField = fieldDate
	m.dateInput.SetValue(m.suggestNextMonth())
	m.dateInput.CursorEnd()
	m.valueInput.SetValue("")
	m.updateFormFocus()
	return textinput.Blink
}

func (m *Model) openEditForm(date, value string) tea.Cmd {
	m.mode = modeEdit
	m.formErr = ""
	m.editDate = date
	m.editInput.SetValue(value)
	m.editInput.CursorEnd()
	m.editInput.Focus()
	return textinput.Blink
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.formErr = ""
	m.dateInput.Blur()
	m.valueInput.Blur()
	m.editInput.Blur()
}

// suggestNextMonth pre-fills the add form with the month after the latest one.
func (m *Model) suggestNextMonth() string {
	if last, ok := models.LastMonth(m.state.GetObservations()); ok {
		return last.Next().String()
	}
	return ""
}

// updateAddForm handles the add observation form.
func (m *Model) updateAddForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Escape):
			m.closeForm()
			return nil

		case key.Matches(keyMsg, m.keys.NextField):
			m.focusedField = 1 - m.focusedField
			m.updateFormFocus()
			return textinput.Blink

		case key.Matches(keyMsg, m.keys.Submit):
			if m.focusedField == fieldDate {
				m.focusedField = fieldValue
				m.updateFormFocus()
				return textinput.Blink
			}
			return m.submitAdd()
		}
	}

	var cmd tea.Cmd
	switch m.focusedField {
	case fieldDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
	case fieldValue:
		m.valueInput, cmd = m.valueInput.Update(msg)
	}
	return cmd
}

func (m *Model) submitAdd() tea.Cmd {
	date := strings.TrimSpace(m.dateInput.Value())
	value, err := parseValue(m.valueInput.Value())
	if err == nil {
		_, err = models.NewObservation(date, value)
	}
	if err != nil {
		m.formErr = describeInputError(err)
		if errors.Is(err, models.ErrInvalidDate) {
			m.focusedField = fieldDate
		} else {
			m.focusedField = fieldValue
		}
		m.updateFormFocus()
		return nil
	}

	m.closeForm()
	return m.cmds.AddObservation(date, value)
}

// updateEditForm handles editing the value of the selected month.
func (m *Model) updateEditForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Escape):
			m.closeForm()
			return nil

		case key.Matches(keyMsg, m.keys.Submit):
			value, err := parseValue(m.editInput.Value())
			if err != nil {
				m.formErr = describeInputError(err)
				return nil
			}
			date := m.editDate
			m.closeForm()
			return m.cmds.UpdateObservation(date, value)
		}
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return cmd
}

// updateDeleteConfirm handles the delete confirmation.
func (m *Model) updateDeleteConfirm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			m.mode = modeBrowse
			m.pendingLast = nil
			return m.cmds.DeleteLast()
		case "n", "N", "esc":
			m.mode = modeBrowse
			m.pendingLast = nil
		}
	}
	return nil
}

// updateFormFocus updates which form field is focused.
func (m *Model) updateFormFocus() {
	m.dateInput.Blur()
	m.valueInput.Blur()

	switch m.focusedField {
	case fieldDate:
		m.dateInput.Focus()
	case fieldValue:
		m.valueInput.Focus()
	}
}

// syncTable rebuilds the rows when the shared state has new data.
func (m *Model) syncTable() {
	rev := m.state.Revision()
	if rev == m.revision && len(m.table.Rows()) == m.state.ObservationCount() {
		return
	}
	m.revision = rev

	m.table.SetRows(components.ObservationRows(m.state.GetObservations()))
	if c := m.table.Cursor(); c >= len(m.table.Rows()) {
		m.table.SetCursor(max(0, len(m.table.Rows())-1))
	}
}

// SetSize sets the available size for the data tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(5, height-12))
	m.table.SetColumns(components.ObservationColumns(m.tableWidth()))
}

// InputActive reports whether a form or confirmation prompt is open.
func (m *Model) InputActive() bool {
	return m.mode != modeBrowse
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	switch m.mode {
	case modeAdd:
		return []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.Escape}
	case modeEdit:
		return []key.Binding{m.keys.Submit, m.keys.Escape}
	}
	return []key.Binding{m.keys.Add, m.keys.Edit, m.keys.DeleteLast}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Add, m.keys.Edit, m.keys.DeleteLast},
		{m.keys.Up, m.keys.Down},
	}
}

// lastInserted returns the observation with the highest id, which is the one
// delete-last removes.
func lastInserted(obs []models.Observation) *models.Observation {
	var last *models.Observation
	for i := range obs {
		if last == nil || obs[i].ID > last.ID {
			last = &obs[i]
		}
	}
	return last
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &models.ValidationError{Field: "value", Input: s, Reason: models.ErrInvalidValue}
	}
	if err := models.ValidateValue(v); err != nil {
		return 0, err
	}
	return v, nil
}

func describeInputError(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidDate):
		return msgBadDate
	case errors.Is(err, models.ErrInvalidValue):
		return msgBadValue
	default:
		return err.Error()
	}
}
