// ABOUTME: PNG chart export for a single metric.
// ABOUTME: Line charts plot a time series; bar charts draw one bar per point.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harperreed/healthdash/internal/models"
	"github.com/samber/lo"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	pngWidth  = 1024
	pngHeight = 480
)

// ErrTooFewPoints is returned when a line chart has fewer than two points.
var ErrTooFewPoints = errors.New("line chart needs at least two points")

// ChartPNG writes a PNG chart of points to w, coloured by the metric's category.
func ChartPNG(w io.Writer, m models.MetricWithValues, points []models.ChartPoint, kind ChartKind) error {
	if len(points) == 0 {
		return errors.New(NoDataText)
	}
	color := drawing.ColorFromHex(strings.TrimPrefix(m.Color.Hex(), "#"))
	title := m.Name
	if m.Unit != "" {
		title = fmt.Sprintf("%s (%s)", m.Name, m.Unit)
	}

	if kind == ChartBar {
		return barPNG(w, title, points, color)
	}
	return linePNG(w, title, m.Unit, points, color)
}

func linePNG(w io.Writer, title, unit string, points []models.ChartPoint, color drawing.Color) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}

	xs := make([]time.Time, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		t, err := time.Parse(models.DateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("parse point date %q: %w", p.Date, err)
		}
		xs = append(xs, t)
		ys = append(ys, p.Value)
	}

	ch := chart.Chart{
		Title:      title,
		Width:      pngWidth,
		Height:     pngHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2")},
		YAxis:      chart.YAxis{Name: unit, Range: paddedRange(ys)},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    2,
				},
			},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

func barPNG(w io.Writer, title string, points []models.ChartPoint, color drawing.Color) error {
	maxY := lo.Max(lo.Map(points, func(p models.ChartPoint, _ int) float64 { return p.Value }))
	if maxY <= 0 {
		maxY = 1
	}

	bars := lo.Map(points, func(p models.ChartPoint, _ int) chart.Value {
		return chart.Value{
			Label: label(p),
			Value: p.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	})

	slot := max(2, (pngWidth-80)/len(points))
	bc := chart.BarChart{
		Title:      title,
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   max(1, slot*2/3),
		BarSpacing: max(1, slot/3),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1}},
		Bars:       bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// paddedRange keeps a flat series off the chart edges.
func paddedRange(ys []float64) *chart.ContinuousRange {
	minY, maxY := lo.Min(ys), lo.Max(ys)
	pad := (maxY - minY) * 0.1
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
}
