// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/tsforecast-tui/internal/db"
	"github.com/j-veylop/tsforecast-tui/internal/logger"
	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/services"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

// fallbackHorizon is used when no configuration is available.
const fallbackHorizon = 12

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabData is the ID for the data entry tab.
	TabData TabID = iota
	// TabForecast is the ID for the forecast tab.
	TabForecast
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabData:
		return "Data"
	case TabForecast:
		return "Forecast"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// InputActive reports whether the tab is capturing keystrokes (a form
	// or prompt is open). Global shortcuts other than ctrl+c are suspended.
	InputActive() bool

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "data"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "forecast"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Refresh = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	k.ForceQuit = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	commands *Commands
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model.
func NewModel(mgr *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	horizon := fallbackHorizon
	if mgr != nil && mgr.Config() != nil && mgr.Config().DefaultHorizon > 0 {
		horizon = mgr.Config().DefaultHorizon
	}

	return &Model{
		activeTab: TabData,
		tabNames:  []string{TabData.String(), TabForecast.String(), TabInfo.String()},
		tabs:      make([]Tab, 3), // set by SetTabs
		state:     NewState(horizon),
		services:  mgr,
		commands:  NewCommands(),
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetCommands returns the request helpers handed to the tabs.
func (m *Model) GetCommands() *Commands {
	return m.commands
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		m.state.SetLoadingNotification("Loading...")
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			reloadCmd(m.services, m.state.GetHorizon(), m.state.NextForecastRequest()),
		)
	} else {
		m.state.SetLoading("initial", false)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := m.handleKeyMsg(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if handled {
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.handleAppMsg(msg)...)
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		m.state.ClearExpiredNotifications()
		cmds = append(cmds, defaultTickCmd())
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case ObservationsLoadedMsg:
		cmds = append(cmds, m.handleObservationsLoaded(msg)...)
	case ForecastLoadedMsg:
		cmds = append(cmds, m.handleForecastLoaded(msg)...)
	case AddObservationMsg:
		if m.services != nil {
			cmds = append(cmds, addObservationCmd(m.services, msg.Date, msg.Value))
		}
	case ObservationAddedMsg:
		cmds = append(cmds, m.handleObservationAdded(msg)...)
	case UpdateObservationMsg:
		if m.services != nil {
			cmds = append(cmds, updateObservationCmd(m.services, msg.Date, msg.Value))
		}
	case ObservationUpdatedMsg:
		cmds = append(cmds, m.handleObservationUpdated(msg)...)
	case DeleteLastMsg:
		if m.services != nil {
			cmds = append(cmds, deleteLastCmd(m.services))
		}
	case ObservationDeletedMsg:
		cmds = append(cmds, m.handleObservationDeleted(msg)...)
	case SetHorizonMsg:
		cmds = append(cmds, m.handleSetHorizon(msg)...)
	case RefreshMsg:
		cmds = append(cmds, m.reload()...)
	case AddNotificationMsg:
		id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
		if msg.Duration > 0 {
			cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
		}
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
	case CopyToClipboardMsg:
		cmds = append(cmds, copyToClipboardCmd(msg.Text))
	case TabSwitchMsg:
		m.switchTab(msg.Tab)
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

// reload starts a full re-read of observations and forecast.
func (m *Model) reload() []tea.Cmd {
	if m.services == nil {
		return nil
	}
	m.state.SetLoading("observations", true)
	seq := m.state.NextForecastRequest()
	return []tea.Cmd{reloadCmd(m.services, m.state.GetHorizon(), seq)}
}

func (m *Model) stopLoading(resource string) {
	m.state.SetLoading("initial", false)
	m.state.SetLoading(resource, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
}

func (m *Model) handleObservationsLoaded(msg ObservationsLoadedMsg) []tea.Cmd {
	m.stopLoading("observations")
	if msg.Error != nil {
		logger.Error("failed to load observations", "error", msg.Error)
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to load data: %v", msg.Error))}
	}
	m.state.SetObservations(msg.Observations)
	return nil
}

func (m *Model) handleForecastLoaded(msg ForecastLoadedMsg) []tea.Cmd {
	// A newer request is still running; its result replaces this one.
	if !m.state.IsLatestForecast(msg.Seq) {
		logger.Debug("dropping superseded forecast", "seq", msg.Seq)
		return nil
	}
	m.stopLoading("forecast")
	m.state.SetForecast(msg.Result, msg.Error)

	if msg.Error != nil && !m.state.ForecastUnavailable() {
		logger.Error("forecast failed", "error", msg.Error)
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Forecast failed: %v", msg.Error))}
	}
	return nil
}

func (m *Model) handleObservationAdded(msg ObservationAddedMsg) []tea.Cmd {
	if msg.Error != nil {
		return m.storeErrorCmds("add", msg.Date, msg.Error)
	}
	cmds := []tea.Cmd{notifySuccessCmd(fmt.Sprintf("Added %s = %s",
		msg.Observation.Date, components.FormatValue(msg.Observation.Value)))}
	return append(cmds, m.reload()...)
}

func (m *Model) handleObservationUpdated(msg ObservationUpdatedMsg) []tea.Cmd {
	if msg.Error != nil {
		return m.storeErrorCmds("update", msg.Date, msg.Error)
	}
	cmds := []tea.Cmd{notifySuccessCmd(fmt.Sprintf("Updated %s = %s", msg.Date, components.FormatValue(msg.Value)))}
	return append(cmds, m.reload()...)
}

func (m *Model) handleObservationDeleted(msg ObservationDeletedMsg) []tea.Cmd {
	if msg.Error != nil {
		return m.storeErrorCmds("delete", "", msg.Error)
	}
	if msg.Observation == nil {
		return []tea.Cmd{notifyInfoCmd("Nothing to delete")}
	}
	cmds := []tea.Cmd{notifySuccessCmd(fmt.Sprintf("Deleted %s", msg.Observation.Date))}
	return append(cmds, m.reload()...)
}

func (m *Model) handleSetHorizon(msg SetHorizonMsg) []tea.Cmd {
	if !m.state.SetHorizon(msg.Steps) {
		return []tea.Cmd{notifyWarningCmd("Horizon must be a positive whole number")}
	}
	if m.services == nil {
		return nil
	}
	seq := m.state.NextForecastRequest()
	return []tea.Cmd{loadForecastCmd(m.services, msg.Steps, seq)}
}

// storeErrorCmds maps a failed mutation to feedback. Invalid input is shown
// inline by the tab that owns the form, so it produces no toast.
func (m *Model) storeErrorCmds(op, date string, err error) []tea.Cmd {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		return nil
	case errors.Is(err, db.ErrDuplicateDate):
		return []tea.Cmd{notifyWarningCmd(fmt.Sprintf("%s already exists; edit it instead", date))}
	case errors.Is(err, db.ErrNotFound):
		return []tea.Cmd{notifyWarningCmd(fmt.Sprintf("No observation for %s", date))}
	default:
		logger.Error("store operation failed", "op", op, "date", date, "error", err)
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Failed to %s: %v", op, err))}
	}
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd

	switch e := msg.Event.(type) {
	case services.DataChangedEvent:
		cmds = append(cmds, m.reload()...)

	case services.ForecastAlertEvent:
		cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("Forecast reaches %s in %s (above %s)",
			components.FormatValue(e.Peak.Value), e.Peak.Date.Label(), components.FormatValue(e.Threshold))))

	case services.ErrorEvent:
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error)))
	}

	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if tab := m.currentTab(); tab != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = tab.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) currentTab() Tab {
	if int(m.activeTab) < len(m.tabs) {
		return m.tabs[m.activeTab]
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := max(0, m.height-5)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

func (m *Model) switchTab(id TabID) {
	if int(id) < 0 || int(id) >= len(m.tabs) {
		return
	}
	m.activeTab = id
	m.updateTabSizes()
}

// handleKeyMsg handles global keyboard input. The second result reports
// whether the key was consumed and must not reach the active tab.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return tea.Quit, true
	}

	if tab := m.currentTab(); tab != nil && tab.InputActive() {
		return nil, false
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Escape) {
			m.showHelp = false
		} else if key.Matches(msg, m.keymap.Quit) {
			return tea.Quit, true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return nil, true

	case key.Matches(msg, m.keymap.Tab1):
		m.switchTab(TabData)
		return nil, true

	case key.Matches(msg, m.keymap.Tab2):
		m.switchTab(TabForecast)
		return nil, true

	case key.Matches(msg, m.keymap.Tab3):
		m.switchTab(TabInfo)
		return nil, true

	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		return nil, true

	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		return nil, true

	case key.Matches(msg, m.keymap.Refresh):
		return m.commands.Reload(), true
	}

	return nil, false
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if tab := m.currentTab(); tab != nil {
		b.WriteString(tab.View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	if notifications := m.renderNotifications(); len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := lipgloss.Width(overlay)

	y := max(0, (m.height-len(overlayLines))/2)
	x := max(0, (m.width-overlayWidth)/2)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			mainLines[lineIdx] = mainLine + strings.Repeat(" ", startX-mainLineWidth) + toastLine
		} else {
			mainLines[lineIdx] = ansi.Truncate(mainLine, startX, "") + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-3        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  r          Reload data")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if tab := m.currentTab(); tab != nil {
		if tabHelp := tab.ShortHelp(); len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
