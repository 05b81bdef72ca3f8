// ABOUTME: CLI command for exporting a metric chart as PNG.
// ABOUTME: Writes a line or bar chart coloured by the metric's category.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/render"
	"github.com/spf13/cobra"
)

var (
	chartWindow windowFlags
	chartOutput string
)

var chartCmd = &cobra.Command{
	Use:   "chart <id>",
	Short: "Export a metric chart as PNG",
	Long: `Export one metric's chart as a PNG image.

Line charts need at least two points in the window; bar charts need one.

EXAMPLES:

  healthdash chart 1                              # Writes heart-rate.png
  healthdash chart 2 --view monthly --type bar -o weight.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		mode, w, kind, err := chartWindow.resolve(time.Now())
		if err != nil {
			return err
		}

		m, err := gw.MetricWithValues(cmd.Context(), id)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := render.ChartPNG(&buf, *m, metrics.Process(m.Values, mode, w), kind); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}

		path := chartOutput
		if path == "" {
			path = slug(m.Name) + ".png"
		}
		if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Wrote %s", path))
		return nil
	},
}

// slug turns a metric name into a file name: "Heart Rate" -> "heart-rate".
func slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(fields) == 0 {
		return "metric"
	}
	return strings.Join(fields, "-")
}

func init() {
	chartWindow.bind(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output file (default: <metric-name>.png)")
	rootCmd.AddCommand(chartCmd)
}
