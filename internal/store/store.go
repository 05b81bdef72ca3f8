// ABOUTME: Store interface for the hosted health_metrics / metric_values tables.
// ABOUTME: Defines the query capability set shared by REST, SQL, and cached stores.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Table names a table in the hosted store.
type Table string

const (
	TableMetrics Table = "health_metrics"
	TableValues  Table = "metric_values"
)

var (
	// ErrNotFound is returned by SelectOne when no row has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery is returned when a table or column is not in the allowlist.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnavailable is returned when a backend cannot be reached at open time.
	ErrUnavailable = errors.New("store unavailable")
)

// columns lists the queryable columns of each table.
var columns = map[Table][]string{
	TableMetrics: {"id", "name", "description", "unit", "created_at", "user_id"},
	TableValues:  {"id", "metric_id", "date", "value", "created_at", "user_id"},
}

// Store is the query interface the gateway reads through.
// dest is a pointer to a slice (SelectAll, SelectWhere) or to a struct
// (SelectOne) of JSON-tagged rows.
type Store interface {
	SelectAll(ctx context.Context, table Table, orderBy string, dest any) error
	SelectWhere(ctx context.Context, table Table, field string, value any, orderBy string, dest any) error
	SelectOne(ctx context.Context, table Table, id int64, dest any) error
	Close() error
}

// checkQuery validates the table and every column name against the allowlist.
// Empty column names are skipped.
func checkQuery(table Table, cols ...string) error {
	allowed, ok := columns[table]
	if !ok {
		return fmt.Errorf("%w: unknown table %q", ErrInvalidQuery, table)
	}
	for _, c := range cols {
		if c == "" {
			continue
		}
		if !contains(allowed, c) {
			return fmt.Errorf("%w: unknown column %q on %s", ErrInvalidQuery, c, table)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// decodeRows round-trips rows through JSON into dest so every backend
// honours the same json tags.
func decodeRows(rows any, dest any) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
