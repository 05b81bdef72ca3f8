// ABOUTME: Time bucketing of metric values into chart points.
// ABOUTME: Daily view maps values 1:1 in date order; monthly view averages per calendar month.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/harperreed/healthdash/internal/models"
	"github.com/samber/lo"
)

// ViewMode selects how values are bucketed.
type ViewMode string

const (
	Daily   ViewMode = "daily"
	Monthly ViewMode = "monthly"
)

const (
	dailyLabel   = "Jan 2, 2006"
	monthlyLabel = "Jan 2006"
	monthKey     = "2006-01"
)

// ParseViewMode validates a view mode string.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case Daily, Monthly:
		return ViewMode(s), nil
	default:
		return "", fmt.Errorf("unknown view mode: %s (use daily or monthly)", s)
	}
}

type datedValue struct {
	models.MetricValue
	day time.Time
}

// Process turns raw values into chart points for the given view mode.
// When w is valid only values strictly inside it are kept. Input order does
// not matter; values with an unparseable date are skipped.
func Process(values []models.MetricValue, mode ViewMode, w Window) []models.ChartPoint {
	if len(values) == 0 {
		return []models.ChartPoint{}
	}

	loc := w.location()
	filtered := make([]datedValue, 0, len(values))
	for _, v := range values {
		day, err := v.ParseDate(loc)
		if err != nil {
			continue
		}
		if w.Valid() && !w.Contains(day) {
			continue
		}
		filtered = append(filtered, datedValue{MetricValue: v, day: day})
	}

	if mode == Monthly {
		return bucketMonthly(filtered)
	}
	return bucketDaily(filtered)
}

func bucketDaily(values []datedValue) []models.ChartPoint {
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].day.Before(values[j].day)
	})
	return lo.Map(values, func(v datedValue, _ int) models.ChartPoint {
		return models.ChartPoint{
			Date:          v.Date,
			Value:         v.Value,
			FormattedDate: v.day.Format(dailyLabel),
		}
	})
}

func bucketMonthly(values []datedValue) []models.ChartPoint {
	byMonth := lo.GroupBy(values, func(v datedValue) string {
		return v.day.Format(monthKey)
	})

	months := lo.Keys(byMonth)
	sort.Strings(months)

	out := make([]models.ChartPoint, 0, len(months))
	for _, key := range months {
		group := byMonth[key]
		sum := lo.SumBy(group, func(v datedValue) float64 { return v.Value })
		first := time.Date(group[0].day.Year(), group[0].day.Month(), 1, 0, 0, 0, 0, group[0].day.Location())
		out = append(out, models.ChartPoint{
			Date:          first.Format(models.DateLayout),
			Value:         round2(sum / float64(len(group))),
			FormattedDate: first.Format(monthlyLabel),
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
