// ABOUTME: CLI command for showing one metric as a card.
// ABOUTME: Optionally prints every chart point as a table.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/render"
	"github.com/spf13/cobra"
)

const showCardWidth = 64

var (
	showWindow windowFlags
	showTable  bool
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"s"},
	Short:   "Show one metric",
	Long: `Show one metric as a dashboard card.

The card shows the latest value, its change from the previous value, and a
chart of the selected window. Dates are exclusive: a sample dated exactly
on --from or --to is left out.

EXAMPLES:

  healthdash show 1                          # Last 3 months, daily sparkline
  healthdash show 2 --view monthly --type bar
  healthdash show 3 --from 2024-01-01 --to 2024-04-01 --table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		mode, w, kind, err := showWindow.resolve(time.Now())
		if err != nil {
			return err
		}

		m, err := gw.MetricWithValues(cmd.Context(), id)
		if err != nil {
			return err
		}

		points := metrics.Process(m.Values, mode, w)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, render.Card(*m, points, metrics.Summarize(m.Values), kind, showCardWidth))

		if showTable {
			faint := color.New(color.Faint)
			for _, p := range points {
				fmt.Fprintf(out, "%s %s %g\n", faint.Sprint(p.Date), padRight(p.FormattedDate, 14), p.Value)
			}
		}
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid metric id: %s", s)
	}
	return id, nil
}

func init() {
	showWindow.bind(showCmd)
	showCmd.Flags().BoolVar(&showTable, "table", false, "also print every chart point")
	rootCmd.AddCommand(showCmd)
}
