// ABOUTME: Export and import of metrics with their values.
// ABOUTME: Supports JSON, YAML, and Markdown export and JSON import.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// FormatVersion is written into every export.
const FormatVersion = "1.0"

// Formats lists the supported export formats.
var Formats = []string{"json", "yaml", "markdown"}

// Data represents the full export format for dashboard data.
type Data struct {
	Version    string                    `json:"version" yaml:"version"`
	ExportedAt time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool       string                    `json:"tool" yaml:"tool"`
	Synthetic  bool                      `json:"synthetic" yaml:"synthetic"`
	Metrics    []models.MetricWithValues `json:"metrics" yaml:"metrics"`
}

// New wraps metrics in an export envelope.
func New(all []models.MetricWithValues, synthetic bool, now time.Time) *Data {
	if all == nil {
		all = []models.MetricWithValues{}
	}
	return &Data{
		Version:    FormatVersion,
		ExportedAt: now,
		Tool:       "healthdash",
		Synthetic:  synthetic,
		Metrics:    all,
	}
}

// JSON exports all data as indented JSON.
func (d *Data) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML exports all data as YAML.
func (d *Data) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// Markdown exports one table per metric. Values are bucketed with mode and
// filtered by w, the same way the dashboard draws them.
func (d *Data) Markdown(mode metrics.ViewMode, w metrics.Window) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Health Export - %s\n\n", d.ExportedAt.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", d.ExportedAt.Format(time.RFC3339)))
	if w.Valid() {
		sb.WriteString(fmt.Sprintf("Window: %s to %s (%s)\n\n",
			metrics.FormatDisplayDate(w.Start), metrics.FormatDisplayDate(w.End), mode))
	}

	for _, m := range d.Metrics {
		points := metrics.Process(m.Values, mode, w)
		summary := metrics.Summarize(m.Values)

		sb.WriteString(fmt.Sprintf("## %s\n\n", m.Name))
		if summary.Count > 0 {
			sb.WriteString(fmt.Sprintf("Latest: %.2f %s, change %s\n\n", summary.Latest, m.Unit, summary.ChangeText()))
		}
		if len(points) == 0 {
			sb.WriteString("No data available for the selected period\n\n")
			continue
		}

		sb.WriteString("| Date | Value |\n")
		sb.WriteString("|------|-------|\n")
		for _, p := range points {
			sb.WriteString(fmt.Sprintf("| %s | %.2f %s |\n", p.FormattedDate, p.Value, m.Unit))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Rows flattens the export into table rows, ready for SQL.Seed.
func (d *Data) Rows() ([]models.HealthMetric, []models.MetricValue) {
	defs := lo.Map(d.Metrics, func(m models.MetricWithValues, _ int) models.HealthMetric {
		return m.HealthMetric
	})
	values := lo.FlatMap(d.Metrics, func(m models.MetricWithValues, _ int) []models.MetricValue {
		return m.Values
	})
	return defs, values
}

// ParseJSON reads a JSON export and checks that every value belongs to the
// metric it is listed under and that no id appears twice.
func ParseJSON(data []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	if d.Version == "" {
		return nil, errors.New("parse export: missing version")
	}

	seen := make(map[int64]bool, len(d.Metrics))
	seenValues := make(map[int64]int64)
	for _, m := range d.Metrics {
		if seen[m.ID] {
			return nil, fmt.Errorf("parse export: duplicate metric id %d", m.ID)
		}
		seen[m.ID] = true
		for _, v := range m.Values {
			if owner, dup := seenValues[v.ID]; dup {
				return nil, fmt.Errorf("parse export: duplicate value id %d (under metrics %d and %d)", v.ID, owner, m.ID)
			}
			seenValues[v.ID] = m.ID
			if v.MetricID != m.ID {
				return nil, fmt.Errorf("parse export: value %d listed under metric %d belongs to %d", v.ID, m.ID, v.MetricID)
			}
			if _, err := v.ParseDate(time.UTC); err != nil {
				return nil, fmt.Errorf("parse export: value %d has invalid date %q", v.ID, v.Date)
			}
		}
	}
	return &d, nil
}
