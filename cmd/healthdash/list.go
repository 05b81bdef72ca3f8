// ABOUTME: CLI command for listing metric definitions.
// ABOUTME: Shows id, name, unit, and category for every metric.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List health metrics",
	Long: `List every metric definition, sorted by name.

OUTPUT FORMAT:

  Each line shows: ID  NAME  UNIT  CATEGORY

  Use the ID with 'show' and 'chart'.

EXAMPLES:

  healthdash list
  healthdash list --backend demo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := gw.ListMetrics(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No metrics found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range list {
			fmt.Fprintf(out, "%s %s %s %s\n",
				faint.Sprint(padRight(fmt.Sprint(m.ID), 6)),
				padRight(m.Name, 24),
				padRight(m.Unit, 10),
				faint.Sprint(metrics.Classify(m.Name)))
		}
		if gw.Synthetic() {
			fmt.Fprintln(out, faint.Sprint("(synthetic data)"))
		}
		return nil
	},
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	rootCmd.AddCommand(listCmd)
}
