// ABOUTME: Root Cobra command for the healthdash CLI.
// ABOUTME: Builds the logger, config, and metric gateway in PersistentPreRunE.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthdash/internal/config"
	"github.com/harperreed/healthdash/internal/gateway"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfg     *config.Config
	gw      *gateway.Gateway
	logger  *log.Logger
	verbose bool
	backend string
)

// standalone commands manage their own connections.
var standalone = map[string]bool{
	"help":       true,
	"version":    true,
	"completion": true,
	"seed":       true,
	"import":     true,
}

var rootCmd = &cobra.Command{
	Use:           "healthdash",
	Short:         "Health metrics dashboard for the terminal",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Healthdash shows your health metrics as dashboard cards and charts.

WHAT IT SHOWS:

  Heart rate, weight, steps, sleep, water, calories, and any other metric
  in your health_metrics table, each coloured by category.

QUICK START:

  $ healthdash dashboard                    # Cards for every metric, last 3 months
  $ healthdash dashboard --view monthly     # Monthly averages
  $ healthdash show 1 --type bar            # One metric as a bar chart
  $ healthdash chart 2 -o weight.png        # Export a PNG chart
  $ healthdash export yaml                  # Dump metrics and values
  $ healthdash seed --backend sqlite        # Fill a local database with demo rows

DATA SOURCES:

  supabase   Hosted REST API (SUPABASE_URL, SUPABASE_ANON_KEY). Default.
  postgres   Direct connection (HEALTHDASH_POSTGRES_DSN)
  sqlite     Local database (HEALTHDASH_SQLITE_PATH)
  demo       Synthetic data only

  Without credentials, or when the live store fails, healthdash shows
  90 days of synthetic data so the dashboard always renders.

CONFIGURATION:

  ~/.config/healthdash/config.json, overridden by environment variables.
  Remote query results are cached for 5 minutes (HEALTHDASH_CACHE_TTL).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)
		if standalone[cmd.Name()] {
			return loadConfig()
		}
		if err := loadConfig(); err != nil {
			return err
		}

		live, err := cfg.OpenStore(logger)
		if err != nil && !errors.Is(err, config.ErrUnconfigured) {
			return fmt.Errorf("failed to open store: %w", err)
		}
		gw = gateway.New(live, gateway.WithLogger(logger))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if gw != nil {
			err := gw.Close()
			gw = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "healthdash",
		Level:  level,
	})
}

func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backend != "" {
		cfg.Backend = backend
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "override the data source (supabase, postgres, sqlite, demo)")
}
