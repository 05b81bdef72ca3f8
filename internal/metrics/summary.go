// ABOUTME: Latest-value summary shown on each metric card.
// ABOUTME: Compares the last two values and formats the change.
package metrics

import (
	"fmt"

	"github.com/harperreed/healthdash/internal/models"
)

// Summary is the headline of a metric card.
type Summary struct {
	Latest        float64 `json:"latest"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Count         int     `json:"count"`
}

// Summarize compares the last two values in store order (ascending by date).
// With one value the change is zero; with none everything is zero.
func Summarize(values []models.MetricValue) Summary {
	s := Summary{Count: len(values)}
	if len(values) == 0 {
		return s
	}

	s.Latest = values[len(values)-1].Value
	s.Previous = s.Latest
	if len(values) > 1 {
		s.Previous = values[len(values)-2].Value
	}

	s.Change = s.Latest - s.Previous
	if s.Previous != 0 {
		s.ChangePercent = s.Change / s.Previous * 100
	}
	return s
}

// ChangeText renders the change like "+1.0 (+1.4%)".
func (s Summary) ChangeText() string {
	sign := ""
	if s.Change > 0 {
		sign = "+"
	}
	pct := "0"
	if s.Previous != 0 {
		pct = fmt.Sprintf("%.1f", s.ChangePercent)
	}
	return fmt.Sprintf("%s%.1f (%s%s%%)", sign, s.Change, sign, pct)
}

// Direction is 1 for an increase, -1 for a decrease and 0 otherwise.
func (s Summary) Direction() int {
	switch {
	case s.Change > 0:
		return 1
	case s.Change < 0:
		return -1
	default:
		return 0
	}
}
