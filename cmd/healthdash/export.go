// ABOUTME: CLI commands for exporting and importing dashboard data.
// ABOUTME: Supports JSON, YAML, and Markdown export and JSON import.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/config"
	"github.com/harperreed/healthdash/internal/export"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportView   string
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export metrics and values",
	Long: `Export every metric with all of its values and category.

FORMATS:

  json       Full JSON export (suitable for 'healthdash import')
  yaml       YAML export (human-readable)
  markdown   One table per metric, bucketed like the dashboard

OPTIONS:

  --output, -o   Write to file instead of stdout
  --view         daily or monthly (markdown only)
  --from, --to   Exclusive date window (markdown only, default: all data;
                 a lone --from runs to now, a lone --to starts at the
                 earliest possible date)

EXAMPLES:

  healthdash export json -o backup.json
  healthdash export yaml
  healthdash export markdown --view monthly --from 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: export.Formats,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		mode, err := metrics.ParseViewMode(exportView)
		if err != nil {
			return err
		}
		w, err := exportWindow(time.Now())
		if err != nil {
			return err
		}

		all, err := gw.AllMetricsWithValues(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		d := export.New(all, gw.Synthetic(), time.Now())

		var data []byte
		switch format {
		case "json":
			data, err = d.JSON()
		case "yaml":
			data, err = d.YAML()
		case "markdown":
			data = []byte(d.Markdown(mode, w))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported to %s", exportOutput))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// exportStart opens the window when only --to is given.
var exportStart = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.Local)

// exportWindow is unbounded unless --from or --to is set.
func exportWindow(now time.Time) (metrics.Window, error) {
	if exportFrom == "" && exportTo == "" {
		return metrics.Window{}, nil
	}
	return metrics.ResolveWindow(exportFrom, exportTo, metrics.Window{Start: exportStart, End: now})
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON export into a SQL backend",
	Long: `Import metrics and values from a 'healthdash export json' file into the
configured sqlite or postgres backend. Rows with the same ids are
overwritten.

EXAMPLES:

  healthdash import backup.json --backend sqlite`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		d, err := export.ParseJSON(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		db, err := cfg.OpenSQL()
		if errors.Is(err, config.ErrUnconfigured) {
			return fmt.Errorf("import needs HEALTHDASH_POSTGRES_DSN for the postgres backend")
		}
		if err != nil {
			return err
		}
		defer db.Close()

		defs, values := d.Rows()
		if err := db.Seed(cmd.Context(), defs, values); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := invalidateCache(); err != nil {
			logger.Warn("could not clear query cache", "err", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported %d metrics and %d values from %s", len(defs), len(values), filename))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportView, "view", string(metrics.Daily), "aggregation for markdown: daily or monthly")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "exclusive start date for markdown (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "exclusive end date for markdown (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
