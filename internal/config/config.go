// ABOUTME: Dashboard configuration with backend selection and env overrides.
// ABOUTME: Decides between a live store and synthetic mode at startup.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/store"
)

// Backend names.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendDemo     = "demo"
)

// ErrUnconfigured means no usable live store is configured; callers switch
// to synthetic mode.
var ErrUnconfigured = errors.New("no live store configured")

// placeholders are the template values shipped in example env files.
var placeholders = []string{
	"your-supabase-url",
	"your-supabase-anon-key",
	"https://your-project.supabase.co",
	"your-anon-key",
}

// Config stores dashboard configuration.
type Config struct {
	// Backend selects the live store: "supabase" (default), "postgres",
	// "sqlite" or "demo".
	Backend string `json:"backend,omitempty" env:"HEALTHDASH_BACKEND"`

	SupabaseURL string `json:"supabase_url,omitempty" env:"SUPABASE_URL"`
	SupabaseKey string `json:"supabase_anon_key,omitempty" env:"SUPABASE_ANON_KEY"`

	PostgresDSN string `json:"postgres_dsn,omitempty" env:"HEALTHDASH_POSTGRES_DSN"`

	// SQLitePath supports ~ expansion. Defaults to ~/.local/share/healthdash/healthdash.db.
	SQLitePath string `json:"sqlite_path,omitempty" env:"HEALTHDASH_SQLITE_PATH"`

	// CacheDir holds the badger query cache. Defaults to ~/.cache/healthdash.
	CacheDir string `json:"cache_dir,omitempty" env:"HEALTHDASH_CACHE_DIR"`

	// CacheTTL is a Go duration string. "0" disables the cache.
	CacheTTL string `json:"cache_ttl,omitempty" env:"HEALTHDASH_CACHE_TTL"`
}

// GetBackend returns the configured backend, defaulting to "supabase".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSupabase
	}
	return strings.ToLower(c.Backend)
}

// GetSQLitePath returns the SQLite path with ~ expanded.
func (c *Config) GetSQLitePath() string {
	if c.SQLitePath == "" {
		return store.DefaultSQLitePath()
	}
	return ExpandPath(c.SQLitePath)
}

// GetCacheDir returns the cache directory with ~ expanded.
func (c *Config) GetCacheDir() string {
	if c.CacheDir == "" {
		return store.CacheDir()
	}
	return ExpandPath(c.CacheDir)
}

// GetCacheTTL parses CacheTTL. Zero means caching is disabled.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	if c.CacheTTL == "" {
		return store.DefaultCacheTTL, nil
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("parse cache ttl %q: %w", c.CacheTTL, err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("cache ttl must not be negative: %s", c.CacheTTL)
	}
	return ttl, nil
}

// IsPlaceholder reports whether a credential is missing or still a template value.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "placeholder") {
		return true
	}
	for _, p := range placeholders {
		if lower == p {
			return true
		}
	}
	return false
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStore opens the configured live store. Remote backends are wrapped in
// the query cache unless the TTL is zero. It returns ErrUnconfigured when the
// gateway should run in synthetic mode.
func (c *Config) OpenStore(logger *log.Logger) (store.Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	var live store.Store
	switch backend := c.GetBackend(); backend {
	case BackendDemo:
		return nil, ErrUnconfigured
	case BackendSupabase:
		if IsPlaceholder(c.SupabaseURL) || IsPlaceholder(c.SupabaseKey) {
			return nil, ErrUnconfigured
		}
		live = store.NewREST(c.SupabaseURL, c.SupabaseKey, &http.Client{Timeout: store.DefaultHTTPTimeout})
	case BackendPostgres:
		pg, err := c.OpenSQL()
		if errors.Is(err, store.ErrUnavailable) {
			logger.Warn("postgres unreachable, serving synthetic data", "err", err)
			return nil, ErrUnconfigured
		}
		if err != nil {
			return nil, err
		}
		live = pg
	case BackendSQLite:
		db, err := c.OpenSQL()
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}

	ttl, err := c.GetCacheTTL()
	if err != nil {
		_ = live.Close()
		return nil, err
	}
	if ttl == 0 {
		return live, nil
	}

	cached, err := store.OpenCache(live, c.GetCacheDir(), ttl, logger)
	if err != nil {
		logger.Warn("query cache unavailable, continuing without it", "err", err)
		return live, nil
	}
	return cached, nil
}

// OpenSQL opens the configured SQL backend directly, without the cache.
func (c *Config) OpenSQL() (*store.SQL, error) {
	switch backend := c.GetBackend(); backend {
	case BackendPostgres:
		if IsPlaceholder(c.PostgresDSN) {
			return nil, ErrUnconfigured
		}
		return store.OpenPostgres(c.PostgresDSN)
	case BackendSQLite:
		return store.OpenSQLite(c.GetSQLitePath())
	default:
		return nil, fmt.Errorf("backend %q is not a SQL backend (use sqlite or postgres)", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthdash", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
