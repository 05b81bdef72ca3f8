// ABOUTME: Bordered metric cards and the dashboard grid layout.
// ABOUTME: A card shows the latest value, its change, and a chart of the window.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/samber/lo"
)

// NoDataText is shown in place of a chart when the window holds no points.
const NoDataText = "No data available for the selected period"

const (
	// DefaultCardWidth is the outer width of a card, borders included.
	DefaultCardWidth = 44
	cardChrome       = 4 // border plus horizontal padding
	barRows          = 7
	barLabelW        = 12
	barValueW        = 9
	gridGap          = " "
)

// Card renders one metric. points are the already bucketed chart points for
// the selected window; s summarises the raw values.
func Card(m models.MetricWithValues, points []models.ChartPoint, s metrics.Summary, kind ChartKind, width int) string {
	if width < 20 {
		width = DefaultCardWidth
	}
	inner := width - cardChrome
	color := CategoryColor(m.Color)

	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(m.Name)

	headline := dimStyle.Render("no values")
	if s.Count > 0 {
		headline = valueStyle.Render(formatValue(s.Latest))
		if m.Unit != "" {
			headline += " " + labelStyle.Render(m.Unit)
		}
		headline += "  " + changeStyle(s).Render(s.ChangeText())
	}

	var chart string
	switch {
	case len(points) == 0:
		chart = dimStyle.Render(NoDataText)
	case kind == ChartBar:
		chart = Bars(points, max(inner-barLabelW-barValueW, 4), barRows, color)
	default:
		chart = Sparkline(lo.Map(points, func(p models.ChartPoint, _ int) float64 { return p.Value }), inner, color)
	}

	lines := []string{title, headline, "", chart}
	if len(points) > 0 {
		lines = append(lines, dimStyle.Render(footer(points, kind)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// footer names the range the chart actually draws. The bar view only has
// room for the most recent barRows points.
func footer(points []models.ChartPoint, kind ChartKind) string {
	first, last := points[0], points[len(points)-1]
	if kind == ChartBar && len(points) > barRows {
		shown := points[len(points)-barRows]
		return fmt.Sprintf("%s to %s, last %d of %d points", label(shown), label(last), barRows, len(points))
	}
	return fmt.Sprintf("%s to %s, %d points", label(first), label(last), len(points))
}

// Grid lays cards out in rows of cols.
func Grid(cards []string, cols int) string {
	if len(cards) == 0 {
		return ""
	}
	if cols < 1 {
		cols = 1
	}

	rows := lo.Map(lo.Chunk(cards, cols), func(row []string, _ int) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, intersperse(row, gridGap)...)
	})
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// GridColumns returns how many cards of cardWidth fit in termWidth.
func GridColumns(termWidth, cardWidth int) int {
	if cardWidth <= 0 || termWidth <= cardWidth {
		return 1
	}
	return max(1, (termWidth+len(gridGap))/(cardWidth+len(gridGap)))
}

func changeStyle(s metrics.Summary) lipgloss.Style {
	switch s.Direction() {
	case 1:
		return lipgloss.NewStyle().Foreground(colorUp)
	case -1:
		return lipgloss.NewStyle().Foreground(colorDown)
	default:
		return dimStyle
	}
}

func intersperse(items []string, sep string) []string {
	if len(items) < 2 {
		return items
	}
	out := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
