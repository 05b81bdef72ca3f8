// ABOUTME: In-memory Store serving a generated roster of six metrics.
// ABOUTME: Used when the hosted store is unconfigured or a live query fails.
package store

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/healthdash/internal/models"
)

// SyntheticDays is how many daily values each synthetic metric carries.
const SyntheticDays = 90

// syntheticSeed keeps the generated jitter stable across runs.
const syntheticSeed = 20240101

// SyntheticUserID owns every synthetic row.
var SyntheticUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("healthdash:synthetic")).String()

type rosterEntry struct {
	id          int64
	name        string
	description string
	unit        string
	base        float64
}

var roster = []rosterEntry{
	{1, "Heart Rate", "Resting heart rate measured each morning", "bpm", 72},
	{2, "Weight", "Body weight", "kg", 75},
	{3, "Steps", "Daily step count", "steps", 8000},
	{4, "Sleep", "Hours slept per night", "hours", 7.5},
	{5, "Water Intake", "Daily water consumption", "glasses", 8},
	{6, "Calories", "Daily energy intake", "kcal", 2200},
}

// Synthetic is a read-only Store over generated data. Safe for concurrent use.
type Synthetic struct {
	metrics []models.HealthMetric
	values  []models.MetricValue
	tables  map[Table][]map[string]any
}

// NewSynthetic generates the roster with values for the SyntheticDays days
// ending on now's calendar date. Each value is base + jitter, jitter in [-5, +5).
func NewSynthetic(now time.Time) *Synthetic {
	rng := rand.New(rand.NewSource(syntheticSeed))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	created := today.AddDate(0, 0, -SyntheticDays)

	s := &Synthetic{}
	for _, e := range roster {
		s.metrics = append(s.metrics, models.HealthMetric{
			ID:          e.id,
			Name:        e.name,
			Description: e.description,
			Unit:        e.unit,
			CreatedAt:   created,
			UserID:      SyntheticUserID,
		})
		for i := 0; i < SyntheticDays; i++ {
			day := today.AddDate(0, 0, i-(SyntheticDays-1))
			jitter := rng.Float64()*10 - 5
			s.values = append(s.values, models.MetricValue{
				ID:        e.id*1000 + int64(i) + 1,
				MetricID:  e.id,
				Date:      day.Format(models.DateLayout),
				Value:     math.Round((e.base+jitter)*100) / 100,
				CreatedAt: day,
				UserID:    SyntheticUserID,
			})
		}
	}

	s.tables = map[Table][]map[string]any{}
	var metricRows, valueRows []map[string]any
	// Both slices are plain structs; encoding cannot fail.
	_ = decodeRows(s.metrics, &metricRows)
	_ = decodeRows(s.values, &valueRows)
	s.tables[TableMetrics] = metricRows
	s.tables[TableValues] = valueRows

	return s
}

// Rows returns copies of the generated metrics and values, for seeding.
func (s *Synthetic) Rows() ([]models.HealthMetric, []models.MetricValue) {
	metrics := append([]models.HealthMetric(nil), s.metrics...)
	values := append([]models.MetricValue(nil), s.values...)
	return metrics, values
}

// SelectAll returns every row of table ordered by orderBy ascending.
func (s *Synthetic) SelectAll(ctx context.Context, table Table, orderBy string, dest any) error {
	return s.SelectWhere(ctx, table, "", nil, orderBy, dest)
}

// SelectWhere returns rows where field equals value. An empty field matches all rows.
func (s *Synthetic) SelectWhere(ctx context.Context, table Table, field string, value any, orderBy string, dest any) error {
	if err := checkQuery(table, field, orderBy); err != nil {
		return err
	}

	want := fmt.Sprint(value)
	out := []map[string]any{}
	for _, row := range s.tables[table] {
		if field == "" || fmt.Sprint(row[field]) == want {
			out = append(out, row)
		}
	}

	if orderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return lessValue(out[i][orderBy], out[j][orderBy])
		})
	}
	return decodeRows(out, dest)
}

// SelectOne returns the row with the given id or ErrNotFound.
func (s *Synthetic) SelectOne(ctx context.Context, table Table, id int64, dest any) error {
	var rows []map[string]any
	if err := s.SelectWhere(ctx, table, "id", id, "", &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return decodeRows(rows[0], dest)
}

// Close is a no-op.
func (s *Synthetic) Close() error {
	return nil
}

// lessValue orders JSON-decoded scalars: numbers numerically, everything
// else by its string form.
func lessValue(a, b any) bool {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}
