// ABOUTME: Badger-backed query cache wrapping another Store.
// ABOUTME: Successful results are kept for a TTL so repeated CLI runs skip the network.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// QueryPrefix namespaces cached query results in the badger keyspace.
const QueryPrefix = "query:"

// DefaultCacheTTL matches how long the dashboard treats fetched data as fresh.
const DefaultCacheTTL = 5 * time.Minute

// Cache is a Store that serves repeated queries from a local badger database.
// Errors from the wrapped store are never cached.
type Cache struct {
	inner  Store
	db     *badger.DB
	ttl    time.Duration
	logger *log.Logger
}

// OpenCache opens (or creates) a cache in dir in front of inner.
func OpenCache(inner Store, dir string, ttl time.Duration, logger *log.Logger) (*Cache, error) {
	if logger == nil {
		logger = log.Default()
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	return &Cache{inner: inner, db: db, ttl: ttl, logger: logger}, nil
}

// CacheDir returns the default cache directory following XDG spec.
func CacheDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, _ := os.UserHomeDir()
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, "healthdash")
}

// SelectAll serves SelectAll from cache when fresh.
func (c *Cache) SelectAll(ctx context.Context, table Table, orderBy string, dest any) error {
	key := queryKey("all", table, "", nil, orderBy)
	return c.cached(key, dest, func() error {
		return c.inner.SelectAll(ctx, table, orderBy, dest)
	})
}

// SelectWhere serves SelectWhere from cache when fresh.
func (c *Cache) SelectWhere(ctx context.Context, table Table, field string, value any, orderBy string, dest any) error {
	key := queryKey("where", table, field, value, orderBy)
	return c.cached(key, dest, func() error {
		return c.inner.SelectWhere(ctx, table, field, value, orderBy, dest)
	})
}

// SelectOne serves SelectOne from cache when fresh.
func (c *Cache) SelectOne(ctx context.Context, table Table, id int64, dest any) error {
	key := queryKey("one", table, "id", id, "")
	return c.cached(key, dest, func() error {
		return c.inner.SelectOne(ctx, table, id, dest)
	})
}

// Invalidate drops every cached query.
func (c *Cache) Invalidate() error {
	return c.db.DropPrefix([]byte(QueryPrefix))
}

// ClearCache drops every cached query in dir without wrapping a store.
func ClearCache(dir string) error {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	dropErr := db.DropPrefix([]byte(QueryPrefix))
	return errors.Join(dropErr, db.Close())
}

// Close closes the cache and the wrapped store.
func (c *Cache) Close() error {
	cacheErr := c.db.Close()
	innerErr := c.inner.Close()
	return errors.Join(cacheErr, innerErr)
}

func (c *Cache) cached(key []byte, dest any, load func() error) error {
	data, err := c.get(key)
	if err == nil {
		if err := json.Unmarshal(data, dest); err == nil {
			c.logger.Debug("cache hit", "key", string(key))
			return nil
		}
	}

	if err := load(); err != nil {
		return err
	}

	data, err = json.Marshal(dest)
	if err != nil {
		c.logger.Debug("cache encode failed", "key", string(key), "err", err)
		return nil
	}
	if err := c.set(key, data); err != nil {
		c.logger.Debug("cache write failed", "key", string(key), "err", err)
	}
	return nil
}

func (c *Cache) get(key []byte) ([]byte, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

func (c *Cache) set(key, data []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(c.ttl))
	})
}

func queryKey(op string, table Table, field string, value any, orderBy string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%s=%v:%s", QueryPrefix, op, table, field, value, orderBy))
}
