// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
)

// Series colors used in asciigraph output. They match styles.Actual and
// styles.Forecast. asciigraph declares its colors as variables.
var (
	ChartActualColor   = asciigraph.Blue
	ChartForecastColor = asciigraph.DarkOrange
)

// Legend markers.
const (
	ActualMarker   = "●"
	ForecastMarker = "✕"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

func clampChartSize(width, height int) (int, int) {
	if width < minChartWidth {
		width = minChartWidth
	}
	if height < minChartHeight {
		height = minChartHeight
	}
	return width, height
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string, color asciigraph.AnsiColor) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width, height = clampChartSize(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(color),
	)
}

// ComparisonSeries lays actual values and forecast values out on one month
// axis. Missing positions are NaN, which asciigraph leaves blank. The
// forecast line starts at the last actual point so the two lines join.
func ComparisonSeries(actual, forecast []float64) (actualLine, forecastLine []float64) {
	n := len(actual) + len(forecast)
	actualLine = make([]float64, n)
	forecastLine = make([]float64, n)

	for i := range n {
		actualLine[i] = math.NaN()
		forecastLine[i] = math.NaN()
	}
	copy(actualLine, actual)
	copy(forecastLine[len(actual):], forecast)

	if len(actual) > 0 && len(forecast) > 0 {
		forecastLine[len(actual)-1] = actual[len(actual)-1]
	}
	return actualLine, forecastLine
}

// RenderComparisonChart plots actual and forecast values on a shared axis.
func RenderComparisonChart(actual, forecast []float64, width, height int, caption string) string {
	if len(actual) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width, height = clampChartSize(width, height)
	actualLine, forecastLine := ComparisonSeries(actual, forecast)

	series := [][]float64{actualLine}
	colors := []asciigraph.AnsiColor{ChartActualColor}
	if len(forecast) > 0 {
		series = append(series, forecastLine)
		colors = append(colors, ChartForecastColor)
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// ChartOffset returns the width of the y-axis labels asciigraph prepends to
// a plot of plotWidth columns, for aligning an axis underneath.
func ChartOffset(chart string, plotWidth int) int {
	first, _, _ := strings.Cut(chart, "\n")
	return max(0, lipgloss.Width(first)-plotWidth-1)
}

// RenderMonthAxis renders the first, middle and last month labels spread
// over width columns, indented by offset to sit under the plot area.
func RenderMonthAxis(months []models.Month, width, offset int) string {
	if len(months) == 0 {
		return ""
	}
	if width < minChartWidth {
		width = minChartWidth
	}

	first := months[0].String()
	last := months[len(months)-1].String()
	if len(months) == 1 {
		return strings.Repeat(" ", max(0, offset)) + first
	}

	line := []rune(strings.Repeat(" ", width))
	place := func(at int, label string) {
		at = max(0, min(at, width-len(label)))
		copy(line[at:], []rune(label))
	}
	place(0, first)
	if len(months) > 2 {
		mid := months[len(months)/2].String()
		if width >= 3*len(mid)+4 {
			place(width/2-len(mid)/2, mid)
		}
	}
	place(width-len(last), last)

	axis := styles.HelpStyle.Render(string(line))
	return strings.Repeat(" ", max(0, offset)) + axis
}

// RenderSparkline creates a compact inline sparkline chart scaled between
// the series minimum and maximum.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val - minVal) / span * float64(len(sparkChars)-1))
		normalized = max(0, min(normalized, len(sparkChars)-1))
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Marker string
	Label  string
	Color  lipgloss.Color
}

// ComparisonLegend is the legend for RenderComparisonChart.
var ComparisonLegend = []LegendItem{
	{Marker: ActualMarker, Label: "Actual", Color: styles.Actual},
	{Marker: ForecastMarker, Label: "Forecast", Color: styles.Forecast},
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		marker := item.Marker
		if marker == "" {
			marker = "■"
		}
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render(marker)
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}
