package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

// resourceLabels describes the work behind each loading resource.
var resourceLabels = map[string]string{
	"initial":      "opening database",
	"observations": "reading observations",
	"forecast":     "fitting ARIMA(1,1,1)",
}

// LoadingSpinner is a dot spinner followed by what is being loaded.
type LoadingSpinner struct {
	model spinner.Model
	label string
	style lipgloss.Style
}

// NewSpinner creates a spinner showing label until SetResources replaces it.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return LoadingSpinner{
		model: s,
		label: label,
		style: lipgloss.NewStyle().Foreground(styles.TextSecondary),
	}
}

// Tick starts the animation.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.model.Tick
}

// Update advances the animation. Ticks addressed to other spinners are ignored.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.model, cmd = l.model.Update(msg)
	return l, cmd
}

// View renders the spinner followed by its label.
func (l LoadingSpinner) View() string {
	return l.model.View() + " " + l.style.Render(l.label)
}

// SetResources describes the resources that are still loading, in order.
// Unknown names are shown as given. An empty list keeps the current label.
func (l *LoadingSpinner) SetResources(resources []string) {
	if len(resources) == 0 {
		return
	}
	parts := make([]string, len(resources))
	for i, r := range resources {
		if label, ok := resourceLabels[r]; ok {
			parts[i] = label
		} else {
			parts[i] = r
		}
	}
	text := strings.Join(parts, ", ")
	l.label = strings.ToUpper(text[:1]) + text[1:] + "..."
}

// Label returns the current label.
func (l LoadingSpinner) Label() string {
	return l.label
}

// RenderSpinnerCentered renders a spinner centered in a given width and height.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
