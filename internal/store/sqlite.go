// ABOUTME: SQLite backend for the Store interface.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS health_metrics (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS metric_values (
		id INTEGER PRIMARY KEY,
		metric_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		value REAL NOT NULL,
		created_at TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (metric_id) REFERENCES health_metrics(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_metric_values_metric_date ON metric_values(metric_id, date);
	CREATE INDEX IF NOT EXISTS idx_health_metrics_name ON health_metrics(name);
`

var sqliteDialect = dialect{
	name:        "sqlite",
	schema:      sqliteSchema,
	placeholder: func(int) string { return "?" },
	timeArg:     func(t time.Time) any { return t.UTC().Format(time.RFC3339) },
}

// OpenSQLite opens or creates a SQLite database at the given path and
// ensures the schema exists.
func OpenSQLite(dbPath string) (*SQL, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	s := &SQL{db: db, dialect: sqliteDialect}

	if err := configurePragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := s.InitSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "healthdash")
}

// DefaultSQLitePath returns the default database path following XDG spec.
func DefaultSQLitePath() string {
	return filepath.Join(DataDir(), "healthdash.db")
}

func configurePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
