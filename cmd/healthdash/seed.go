// ABOUTME: CLI command for seeding a SQL backend with the synthetic roster.
// ABOUTME: Lets the live path run without the hosted service.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/healthdash/internal/config"
	"github.com/harperreed/healthdash/internal/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a SQL backend with synthetic data",
	Long: `Write the six synthetic metrics and 90 days of values into the
configured SQL backend, creating the tables if needed. Existing rows with
the same ids are overwritten.

Only the sqlite and postgres backends can be seeded.

EXAMPLES:

  healthdash seed --backend sqlite
  HEALTHDASH_POSTGRES_DSN=postgres://localhost/health healthdash seed --backend postgres`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cfg.OpenSQL()
		if errors.Is(err, config.ErrUnconfigured) {
			return fmt.Errorf("seed needs HEALTHDASH_POSTGRES_DSN for the postgres backend")
		}
		if err != nil {
			return err
		}
		defer db.Close()

		metrics, values := store.NewSynthetic(time.Now()).Rows()
		if err := db.Seed(cmd.Context(), metrics, values); err != nil {
			return err
		}

		if err := invalidateCache(); err != nil {
			logger.Warn("could not clear query cache", "err", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Seeded %d metrics and %d values into %s", len(metrics), len(values), db.Backend()))
		return nil
	},
}

// invalidateCache drops cached query results so the next read sees the
// seeded rows.
func invalidateCache() error {
	ttl, err := cfg.GetCacheTTL()
	if err != nil || ttl == 0 || cfg.GetBackend() != config.BackendPostgres {
		return err
	}

	return store.ClearCache(cfg.GetCacheDir())
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
