// ABOUTME: Metric definition, metric value, and chart point models.
// ABOUTME: Mirrors the health_metrics and metric_values tables of the hosted store.
package models

import (
	"time"
)

// DateLayout is the calendar-date layout used for MetricValue.Date and ChartPoint.Date.
const DateLayout = "2006-01-02"

// HealthMetric is a metric definition row from the health_metrics table.
type HealthMetric struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Unit        string    `json:"unit" yaml:"unit"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UserID      string    `json:"user_id" yaml:"user_id"`
}

// MetricValue is a single dated sample from the metric_values table.
// Date carries no time component (YYYY-MM-DD).
type MetricValue struct {
	ID        int64     `json:"id" yaml:"id"`
	MetricID  int64     `json:"metric_id" yaml:"metric_id"`
	Date      string    `json:"date" yaml:"date"`
	Value     float64   `json:"value" yaml:"value"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UserID    string    `json:"user_id" yaml:"user_id"`
}

// ParseDate parses the value's calendar date in loc.
func (v MetricValue) ParseDate(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, v.Date, loc)
}

// MetricWithValues pairs a metric definition with its samples and category.
type MetricWithValues struct {
	HealthMetric `yaml:",inline"`
	Values       []MetricValue `json:"values" yaml:"values"`
	Color        Category      `json:"color" yaml:"color"`
}

// ChartPoint is a derived, chart-ready point. Never persisted.
type ChartPoint struct {
	Date          string  `json:"date" yaml:"date"`
	Value         float64 `json:"value" yaml:"value"`
	FormattedDate string  `json:"formatted_date,omitempty" yaml:"formatted_date,omitempty"`
}
