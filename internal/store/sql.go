// ABOUTME: Store over database/sql shared by the SQLite and Postgres backends.
// ABOUTME: Scans rows into column maps and decodes them through JSON tags.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/healthdash/internal/models"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name        string
	schema      string
	placeholder func(n int) string
	timeArg     func(t time.Time) any
}

// SQL is a Store backed by a database/sql connection.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// Backend names the SQL dialect ("sqlite" or "postgres").
func (s *SQL) Backend() string {
	return s.dialect.name
}

// Close closes the database connection.
func (s *SQL) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SelectAll returns every row of table ordered by orderBy ascending.
func (s *SQL) SelectAll(ctx context.Context, table Table, orderBy string, dest any) error {
	if err := checkQuery(table, orderBy); err != nil {
		return err
	}
	query := "SELECT * FROM " + quoteIdent(string(table)) + orderClause(orderBy)
	rows, err := s.queryMaps(ctx, query)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return decodeRows(rows, dest)
}

// SelectWhere returns rows where field equals value, ordered by orderBy ascending.
func (s *SQL) SelectWhere(ctx context.Context, table Table, field string, value any, orderBy string, dest any) error {
	if err := checkQuery(table, field, orderBy); err != nil {
		return err
	}
	query := "SELECT * FROM " + quoteIdent(string(table)) +
		" WHERE " + quoteIdent(field) + " = " + s.dialect.placeholder(1) +
		orderClause(orderBy)
	rows, err := s.queryMaps(ctx, query, value)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return decodeRows(rows, dest)
}

// SelectOne returns the row with the given id or ErrNotFound.
func (s *SQL) SelectOne(ctx context.Context, table Table, id int64, dest any) error {
	if err := checkQuery(table); err != nil {
		return err
	}
	query := "SELECT * FROM " + quoteIdent(string(table)) +
		" WHERE " + quoteIdent("id") + " = " + s.dialect.placeholder(1) + " LIMIT 1"
	rows, err := s.queryMaps(ctx, query, id)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return decodeRows(rows[0], dest)
}

// InitSchema creates the two tables if they do not exist.
func (s *SQL) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Seed upserts metrics and their values in one transaction.
func (s *SQL) Seed(ctx context.Context, metrics []models.HealthMetric, values []models.MetricValue) error {
	if err := s.InitSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := s.dialect.placeholder
	metricQuery := fmt.Sprintf(`
		INSERT INTO health_metrics (id, name, description, unit, created_at, user_id)
		VALUES (%s, %s, %s, %s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			unit = excluded.unit,
			user_id = excluded.user_id
	`, p(1), p(2), p(3), p(4), p(5), p(6))
	for _, m := range metrics {
		if _, err := tx.ExecContext(ctx, metricQuery,
			m.ID, m.Name, m.Description, m.Unit, s.dialect.timeArg(m.CreatedAt), m.UserID,
		); err != nil {
			return fmt.Errorf("seed metric %d: %w", m.ID, err)
		}
	}

	valueQuery := fmt.Sprintf(`
		INSERT INTO metric_values (id, metric_id, date, value, created_at, user_id)
		VALUES (%s, %s, %s, %s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET
			metric_id = excluded.metric_id,
			date = excluded.date,
			value = excluded.value,
			user_id = excluded.user_id
	`, p(1), p(2), p(3), p(4), p(5), p(6))
	for _, v := range values {
		if _, err := tx.ExecContext(ctx, valueQuery,
			v.ID, v.MetricID, v.Date, v.Value, s.dialect.timeArg(v.CreatedAt), v.UserID,
		); err != nil {
			return fmt.Errorf("seed value %d: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// queryMaps runs query and returns each row as a column -> value map.
func (s *SQL) queryMaps(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []map[string]any{}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalizeValue(c, raw[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeValue converts driver values into the JSON shapes the hosted
// REST API returns: dates as YYYY-MM-DD, timestamps as RFC 3339, numbers as
// numbers.
func normalizeValue(col string, v any) any {
	switch val := v.(type) {
	case []byte:
		return normalizeValue(col, string(val))
	case time.Time:
		if col == "date" {
			return val.Format(models.DateLayout)
		}
		return val.Format(time.RFC3339Nano)
	case string:
		switch col {
		case "id", "metric_id", "value":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f
			}
		case "created_at":
			if val == "" {
				return nil
			}
		}
		return val
	default:
		return val
	}
}

func orderClause(orderBy string) string {
	if orderBy == "" {
		return ""
	}
	return " ORDER BY " + quoteIdent(orderBy) + " ASC"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
