// ABOUTME: Text sparklines and bar rows for metric cards.
// ABOUTME: Downsamples long series to the available width.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/samber/lo"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline draws values as a single line of block characters.
func Sparkline(values []float64, w int, color lipgloss.Color) string {
	if len(values) == 0 || w < 1 {
		return ""
	}

	values = sample(values, w)
	minV, maxV := lo.Min(values), lo.Max(values)
	rng := maxV - minV
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		sb.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// Bars draws one horizontal bar per point, scaled to the largest value.
// Long series keep only the most recent rows.
func Bars(points []models.ChartPoint, w, rows int, color lipgloss.Color) string {
	if len(points) == 0 {
		return ""
	}
	if w < 4 {
		w = 4
	}
	if rows > 0 && len(points) > rows {
		points = points[len(points)-rows:]
	}

	maxVal := lo.MaxBy(points, func(a, b models.ChartPoint) bool { return a.Value > b.Value }).Value
	if maxVal <= 0 {
		maxVal = 1
	}
	labelW := lo.Max(lo.Map(points, func(p models.ChartPoint, _ int) int { return len(label(p)) }))

	barStyle := lipgloss.NewStyle().Foreground(color)
	trackStyle := lipgloss.NewStyle().Foreground(colorTrack)

	lines := lo.Map(points, func(p models.ChartPoint, _ int) string {
		filled := int(p.Value / maxVal * float64(w))
		if filled < 1 && p.Value > 0 {
			filled = 1
		}
		filled = min(max(filled, 0), w)
		return fmt.Sprintf("%s %s%s %s",
			labelStyle.Width(labelW).Render(label(p)),
			barStyle.Render(strings.Repeat("█", filled)),
			trackStyle.Render(strings.Repeat("░", w-filled)),
			formatValue(p.Value))
	})
	return strings.Join(lines, "\n")
}

// sample picks w evenly spaced values when there are more than w.
func sample(values []float64, w int) []float64 {
	if len(values) <= w {
		return values
	}
	step := float64(len(values)) / float64(w)
	return lo.Times(w, func(i int) float64 {
		return values[min(int(float64(i)*step), len(values)-1)]
	})
}

func label(p models.ChartPoint) string {
	if p.FormattedDate != "" {
		return p.FormattedDate
	}
	return p.Date
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
