// ABOUTME: Tests for the metric data gateway.
// ABOUTME: Covers synthetic mode, live SQLite reads, per-call fallback, and not-found.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every query, like an unreachable hosted database.
type brokenStore struct{}

func (brokenStore) SelectAll(ctx context.Context, table store.Table, orderBy string, dest any) error {
	return errors.New("connection refused")
}

func (brokenStore) SelectWhere(ctx context.Context, table store.Table, field string, value any, orderBy string, dest any) error {
	return errors.New("connection refused")
}

func (brokenStore) SelectOne(ctx context.Context, table store.Table, id int64, dest any) error {
	return errors.New("connection refused")
}

func (brokenStore) Close() error { return nil }

// flakyStore wraps a store and fails value queries for one metric id.
type flakyStore struct {
	store.Store
	failFor int64
	mu      sync.Mutex
	calls   int
}

func (f *flakyStore) SelectWhere(ctx context.Context, table store.Table, field string, value any, orderBy string, dest any) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if v, ok := value.(int64); ok && v == f.failFor {
		return errors.New("timeout")
	}
	return f.Store.SelectWhere(ctx, table, field, value, orderBy, dest)
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func setupLiveStore(t *testing.T) *store.SQL {
	t.Helper()

	s, err := store.OpenSQLite(filepath.Join(t.TempDir(), "live.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	metrics := []models.HealthMetric{
		{ID: 100, Name: "Mood", Unit: "scale", CreatedAt: created, UserID: "u1"},
		{ID: 1, Name: "Resting Heart Rate", Unit: "bpm", CreatedAt: created, UserID: "u1"},
	}
	values := []models.MetricValue{
		{ID: 1, MetricID: 100, Date: "2024-01-02", Value: 6, CreatedAt: created, UserID: "u1"},
		{ID: 2, MetricID: 100, Date: "2024-01-01", Value: 7, CreatedAt: created, UserID: "u1"},
		{ID: 3, MetricID: 1, Date: "2024-01-01", Value: 61, CreatedAt: created, UserID: "u1"},
	}
	require.NoError(t, s.Seed(context.Background(), metrics, values))
	return s
}

func TestSyntheticModeListMetrics(t *testing.T) {
	var buf bytes.Buffer
	g := New(nil, WithLogger(testLogger(&buf)))

	got, err := g.ListMetrics(context.Background())
	require.NoError(t, err)

	assert.True(t, g.Synthetic())
	assert.Len(t, got, 6)
	assert.Equal(t, "Calories", got[0].Name)
	assert.Equal(t, "Weight", got[5].Name)
	assert.Contains(t, buf.String(), "synthetic")
}

func TestSyntheticModeListValues(t *testing.T) {
	g := New(nil, WithLogger(testLogger(&bytes.Buffer{})))

	got, err := g.ListValues(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 90)

	today := time.Now().Format(models.DateLayout)
	assert.Equal(t, today, got[89].Date)
	first, err := got[0].ParseDate(time.Local)
	require.NoError(t, err)
	last, err := got[89].ParseDate(time.Local)
	require.NoError(t, err)
	assert.Equal(t, today, last.Format(models.DateLayout))
	assert.Equal(t, first.AddDate(0, 0, 89).Format(models.DateLayout), today)
}

func TestSyntheticModeNotFound(t *testing.T) {
	g := New(nil, WithLogger(testLogger(&bytes.Buffer{})))

	_, err := g.MetricWithValues(context.Background(), 9999)
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, int64(9999), nf.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "9999")
}

func TestSyntheticModeMetricWithValues(t *testing.T) {
	g := New(nil, WithLogger(testLogger(&bytes.Buffer{})))

	got, err := g.MetricWithValues(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Weight", got.Name)
	assert.Equal(t, models.CategoryWeight, got.Color)
	assert.Len(t, got.Values, 90)
	for _, v := range got.Values {
		assert.Equal(t, int64(2), v.MetricID)
	}
}

func TestLiveFailureFallsBack(t *testing.T) {
	var buf bytes.Buffer
	g := New(brokenStore{}, WithLogger(testLogger(&buf)))
	ctx := context.Background()

	list, err := g.ListMetrics(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)

	values, err := g.ListValues(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, values, 90)

	m, err := g.MetricWithValues(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Water Intake", m.Name)
	assert.Equal(t, models.CategoryWater, m.Color)

	_, err = g.MetricWithValues(ctx, 9999)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Contains(t, buf.String(), "live store failed")
	assert.Contains(t, buf.String(), "connection refused")
	assert.False(t, g.Synthetic())
}

func TestLiveStoreIsPreferred(t *testing.T) {
	live := setupLiveStore(t)
	g := New(live, WithLogger(testLogger(&bytes.Buffer{})))
	ctx := context.Background()

	list, err := g.ListMetrics(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mood", list[0].Name)

	m, err := g.MetricWithValues(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryDefault, m.Color)
	require.Len(t, m.Values, 2)
	assert.Equal(t, "2024-01-01", m.Values[0].Date)
	assert.Equal(t, "2024-01-02", m.Values[1].Date)
}

func TestLiveMissingIDUsesSyntheticRoster(t *testing.T) {
	live := setupLiveStore(t)
	g := New(live, WithLogger(testLogger(&bytes.Buffer{})))

	m, err := g.MetricWithValues(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Steps", m.Name)
	assert.Len(t, m.Values, 90)
	assert.Equal(t, store.SyntheticUserID, m.UserID)
}

func TestAllMetricsWithValuesLive(t *testing.T) {
	live := setupLiveStore(t)
	g := New(live, WithLogger(testLogger(&bytes.Buffer{})))

	all, err := g.AllMetricsWithValues(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "Mood", all[0].Name)
	assert.Len(t, all[0].Values, 2)
	assert.Equal(t, "Resting Heart Rate", all[1].Name)
	assert.Equal(t, models.CategoryHeart, all[1].Color)
	assert.Len(t, all[1].Values, 1)

	for _, m := range all {
		for _, v := range m.Values {
			assert.Equal(t, m.ID, v.MetricID, "value %d paired with wrong metric", v.ID)
		}
	}
}

func TestAllMetricsWithValuesFallback(t *testing.T) {
	g := New(brokenStore{}, WithLogger(testLogger(&bytes.Buffer{})))

	all, err := g.AllMetricsWithValues(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 6)
	for _, m := range all {
		assert.Len(t, m.Values, 90)
		assert.NotEqual(t, models.CategoryDefault, m.Color, "%s should be classified", m.Name)
	}
}

func TestAllMetricsWithValuesPartialFailure(t *testing.T) {
	live := setupLiveStore(t)
	flaky := &flakyStore{Store: live, failFor: 1}
	var buf bytes.Buffer
	g := New(flaky, WithLogger(testLogger(&buf)))

	all, err := g.AllMetricsWithValues(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Mood (100) came from the live store; metric 1 fell back to the roster.
	assert.Len(t, all[0].Values, 2)
	assert.Len(t, all[1].Values, 90)
	assert.Equal(t, 2, flaky.calls)
	assert.Contains(t, buf.String(), "metric_id=1")
}

func TestCanceledContextIsReturned(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(brokenStore{}, WithLogger(testLogger(&bytes.Buffer{})))
	_, err := g.ListMetrics(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCloseClosesLiveStore(t *testing.T) {
	live := setupLiveStore(t)
	g := New(live, WithLogger(testLogger(&bytes.Buffer{})))
	require.NoError(t, g.Close())

	assert.NoError(t, New(nil, WithLogger(testLogger(&bytes.Buffer{}))).Close())
}
