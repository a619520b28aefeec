package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

// ReadinessBar shows how close the series is to the minimum length a
// forecast needs.
type ReadinessBar struct {
	progress progress.Model
}

// NewReadinessBar creates a readiness bar with the given width.
func NewReadinessBar(width int) ReadinessBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(max(width, 10)),
		progress.WithoutPercentage(),
	)
	return ReadinessBar{progress: p}
}

// SetWidth sets the progress bar width.
func (r *ReadinessBar) SetWidth(width int) {
	r.progress.Width = max(width, 10)
}

// View renders the bar for have out of need observations.
func (r ReadinessBar) View(have, need int) string {
	ratio := 1.0
	if need > 0 {
		ratio = min(1, float64(max(have, 0))/float64(need))
	}

	style := styles.WarningTextStyle
	if ratio >= 1 {
		style = styles.SuccessTextStyle
	}
	label := style.Render(fmt.Sprintf("%d/%d observations", have, need))

	return lipgloss.JoinHorizontal(lipgloss.Center, r.progress.ViewAs(ratio), " ", label)
}
