// ABOUTME: Shared --view, --from, --to, and --type flags.
// ABOUTME: Resolves them into a view mode, date window, and chart kind.
package main

import (
	"time"

	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/render"
	"github.com/spf13/cobra"
)

type windowFlags struct {
	view string
	from string
	to   string
	kind string
}

func (f *windowFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.view, "view", string(metrics.Daily), "aggregation: daily or monthly")
	cmd.Flags().StringVar(&f.from, "from", "", "exclusive start date (YYYY-MM-DD, default 3 months ago)")
	cmd.Flags().StringVar(&f.to, "to", "", "exclusive end date (YYYY-MM-DD, default now)")
	cmd.Flags().StringVarP(&f.kind, "type", "t", string(render.ChartLine), "chart type: line or bar")
}

func (f *windowFlags) reset() {
	f.view = string(metrics.Daily)
	f.from = ""
	f.to = ""
	f.kind = string(render.ChartLine)
}

// resolve validates the flags. A missing --from or --to falls back to the
// last three months ending now.
func (f *windowFlags) resolve(now time.Time) (metrics.ViewMode, metrics.Window, render.ChartKind, error) {
	mode, err := metrics.ParseViewMode(f.view)
	if err != nil {
		return "", metrics.Window{}, "", err
	}
	kind, err := render.ParseChartKind(f.kind)
	if err != nil {
		return "", metrics.Window{}, "", err
	}

	w, err := metrics.ResolveWindow(f.from, f.to, metrics.DefaultWindow(now))
	if err != nil {
		return "", metrics.Window{}, "", err
	}
	return mode, w, kind, nil
}
