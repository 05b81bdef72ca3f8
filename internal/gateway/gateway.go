// ABOUTME: Metric data gateway over a live Store with a synthetic fallback.
// ABOUTME: Pairs metrics with their values and category; only fails for unknown ids.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/metrics"
	"github.com/harperreed/healthdash/internal/models"
	"github.com/harperreed/healthdash/internal/store"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the per-metric value fetches in AllMetricsWithValues.
const maxConcurrentFetches = 8

// Gateway reads metrics from a live store, substituting synthetic data when
// the live store is absent or a query against it fails. Safe for concurrent use.
type Gateway struct {
	live     store.Store
	fallback store.Store
	logger   *log.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithFallback replaces the synthetic roster, mostly for tests.
func WithFallback(s store.Store) Option {
	return func(g *Gateway) {
		if s != nil {
			g.fallback = s
		}
	}
}

// New creates a Gateway. A nil live store selects synthetic mode.
func New(live store.Store, opts ...Option) *Gateway {
	g := &Gateway{live: live, logger: log.Default()}
	for _, opt := range opts {
		opt(g)
	}
	if g.fallback == nil {
		g.fallback = store.NewSynthetic(time.Now())
	}
	if g.live == nil {
		g.logger.Info("no live store configured, serving synthetic data")
	}
	return g
}

// Synthetic reports whether the gateway has no live store.
func (g *Gateway) Synthetic() bool {
	return g.live == nil
}

// Close closes the live store.
func (g *Gateway) Close() error {
	if g.live != nil {
		return g.live.Close()
	}
	return nil
}

// ListMetrics returns every metric definition sorted by name.
func (g *Gateway) ListMetrics(ctx context.Context) ([]models.HealthMetric, error) {
	list, _, err := g.listMetrics(ctx)
	return list, err
}

// ListValues returns every value of a metric sorted by date.
func (g *Gateway) ListValues(ctx context.Context, metricID int64) ([]models.MetricValue, error) {
	return g.listValues(ctx, metricID, g.live != nil)
}

// MetricWithValues returns one metric with its values and category. It
// returns a *NotFoundError when the id is neither live nor synthetic.
func (g *Gateway) MetricWithValues(ctx context.Context, id int64) (*models.MetricWithValues, error) {
	var m models.HealthMetric
	live := false

	if g.live != nil {
		err := g.live.SelectOne(ctx, store.TableMetrics, id, &m)
		switch {
		case err == nil:
			live = true
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, store.ErrNotFound):
			g.logger.Debug("metric not in live store, trying synthetic roster", "id", id)
		default:
			g.warnFallback("get metric", err, "id", id)
		}
	}

	if !live {
		if err := g.fallback.SelectOne(ctx, store.TableMetrics, id, &m); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, &NotFoundError{ID: id}
			}
			return nil, fmt.Errorf("get metric %d: %w", id, err)
		}
	}

	values, err := g.listValues(ctx, id, live)
	if err != nil {
		return nil, err
	}
	pair := withValues(m, values)
	return &pair, nil
}

// AllMetricsWithValues returns every metric with its values, fetching each
// metric's values concurrently. Each fetch falls back on its own.
func (g *Gateway) AllMetricsWithValues(ctx context.Context) ([]models.MetricWithValues, error) {
	list, live, err := g.listMetrics(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.MetricWithValues, len(list))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentFetches)
	for i, m := range list {
		eg.Go(func() error {
			values, err := g.listValues(egCtx, m.ID, live)
			if err != nil {
				return err
			}
			out[i] = withValues(m, values)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// listMetrics also reports whether the result came from the live store, so
// callers fetch values from the same source.
func (g *Gateway) listMetrics(ctx context.Context) ([]models.HealthMetric, bool, error) {
	var list []models.HealthMetric
	live, err := g.query(ctx, true, "list metrics", func(s store.Store) error {
		list = nil
		return s.SelectAll(ctx, store.TableMetrics, "name", &list)
	})
	if err != nil {
		return nil, false, fmt.Errorf("list metrics: %w", err)
	}
	if list == nil {
		list = []models.HealthMetric{}
	}
	return list, live, nil
}

func (g *Gateway) listValues(ctx context.Context, metricID int64, tryLive bool) ([]models.MetricValue, error) {
	var values []models.MetricValue
	_, err := g.query(ctx, tryLive, "list values", func(s store.Store) error {
		values = nil
		return s.SelectWhere(ctx, store.TableValues, "metric_id", metricID, "date", &values)
	}, "metric_id", metricID)
	if err != nil {
		return nil, fmt.Errorf("list values for metric %d: %w", metricID, err)
	}
	if values == nil {
		values = []models.MetricValue{}
	}
	return values, nil
}

// query runs fn against the live store when tryLive is set, and against the
// fallback when that fails. It reports whether the live store answered.
// No retries: a single live failure goes straight to the fallback.
func (g *Gateway) query(ctx context.Context, tryLive bool, op string, fn func(store.Store) error, keyvals ...any) (bool, error) {
	if tryLive && g.live != nil {
		err := fn(g.live)
		if err == nil {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		g.warnFallback(op, err, keyvals...)
	}
	return false, fn(g.fallback)
}

func (g *Gateway) warnFallback(op string, err error, keyvals ...any) {
	kv := append([]any{"op", op, "err", err}, keyvals...)
	g.logger.Warn("live store failed, serving synthetic data", kv...)
}

func withValues(m models.HealthMetric, values []models.MetricValue) models.MetricWithValues {
	return models.MetricWithValues{
		HealthMetric: m,
		Values:       values,
		Color:        metrics.Classify(m.Name),
	}
}
