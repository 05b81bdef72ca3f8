// ABOUTME: CLI command for the full metric dashboard.
// ABOUTME: Renders one card per metric in a grid.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/render"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	dashWindow windowFlags
	dashCols   int
	dashWidth  int
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "d"},
	Short:   "Show every metric as a card grid",
	Long: `Show every metric as a card in a grid.

Each card shows the latest value, the change from the previous value, and a
chart of the selected window. Metrics with no samples in the window show
"No data available for the selected period".

EXAMPLES:

  healthdash dashboard
  healthdash dashboard --view monthly --type bar
  healthdash dashboard --from 2024-01-01 --to 2024-07-01 --cols 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		mode, w, kind, err := dashWindow.resolve(now)
		if err != nil {
			return err
		}

		all, err := gw.AllMetricsWithValues(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(all) == 0 {
			fmt.Fprintln(out, "No metrics found.")
			return nil
		}

		cards := lo.Map(all, func(m models.MetricWithValues, _ int) string {
			return render.Card(m, metrics.Process(m.Values, mode, w), metrics.Summarize(m.Values), kind, dashWidth)
		})

		cols := dashCols
		if cols <= 0 {
			cols = render.GridColumns(terminalWidth(), dashWidth)
		}

		faint := color.New(color.Faint)
		header := fmt.Sprintf("%s view", mode)
		if w.Valid() {
			header += fmt.Sprintf(", %s to %s", metrics.FormatDisplayDate(w.Start), metrics.FormatDisplayDate(w.End))
		}
		if gw.Synthetic() {
			header += ", synthetic data"
		}
		fmt.Fprintln(out, faint.Sprint(header))
		fmt.Fprintln(out, render.Grid(cards, cols))
		return nil
	},
}

func init() {
	dashWindow.bind(dashboardCmd)
	dashboardCmd.Flags().IntVar(&dashCols, "cols", 0, "cards per row (default: fit the terminal)")
	dashboardCmd.Flags().IntVar(&dashWidth, "width", render.DefaultCardWidth, "card width in columns")
	rootCmd.AddCommand(dashboardCmd)
}
