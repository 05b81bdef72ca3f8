// ABOUTME: Postgres backend for the Store interface.
// ABOUTME: Connects straight to the hosted database with the pgx stdlib driver.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS health_metrics (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		user_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS metric_values (
		id BIGINT PRIMARY KEY,
		metric_id BIGINT NOT NULL REFERENCES health_metrics(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		user_id TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_metric_values_metric_date ON metric_values(metric_id, date);
`

var postgresDialect = dialect{
	name:        "postgres",
	schema:      postgresSchema,
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	timeArg:     func(t time.Time) any { return t },
}

// Pool limits for the Postgres connection.
const (
	postgresMaxOpenConns    = 8
	postgresConnMaxLifetime = 5 * time.Minute
	postgresPingTimeout     = 10 * time.Second
)

// OpenPostgres opens a connection pool to dsn and checks that the server
// answers. The schema is owned by the hosted database and is only created
// by Seed.
func OpenPostgres(dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open postgres: empty DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetMaxIdleConns(postgresMaxOpenConns / 2)
	db.SetConnMaxLifetime(postgresConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", ErrUnavailable, err)
	}

	return &SQL{db: db, dialect: postgresDialect}, nil
}
