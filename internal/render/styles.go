// ABOUTME: Colours and reusable lipgloss styles for terminal output.
// ABOUTME: Category colours come from the models package.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/healthdash/internal/models"
)

var (
	colorText    = lipgloss.Color("#CDD6F4")
	colorSubtext = lipgloss.Color("#A6ADC8")
	colorDim     = lipgloss.Color("#585B70")
	colorTrack   = lipgloss.Color("#45475A")
	colorUp      = lipgloss.Color("#A6E3A1")
	colorDown    = lipgloss.Color("#F38BA8")
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// ChartKind selects how a card or PNG draws its points.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// ParseChartKind validates a --type flag value.
func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(s) {
	case ChartLine, ChartBar:
		return ChartKind(s), nil
	default:
		return "", fmt.Errorf("unknown chart type: %s (use line or bar)", s)
	}
}

// CategoryColor returns the lipgloss colour for a category.
func CategoryColor(c models.Category) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
