package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jgoulah/bikestats/internal/config"
	"github.com/jgoulah/bikestats/internal/database"
	"github.com/jgoulah/bikestats/internal/dataset"
	"github.com/jgoulah/bikestats/internal/logging"
	"github.com/jgoulah/bikestats/internal/query"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "bikestats",
	Short: "Explore descriptive statistics of US bikeshare trips",
	Long: `Bikestats loads bikeshare trip data for Chicago, New York City and Washington,
filters it by month and day of week, and reports the most common travel times,
stations, trip durations and rider demographics.

Run without a subcommand to start the interactive explorer.`,
	SilenceUsage: true,
	RunE:         runExplore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "trip cache database (default from config, else ./trips.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path, preferring the --db flag
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetDatabasePath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// newLogger returns the logger for diagnostics, written to stderr
func newLogger() *logrus.Logger {
	return logging.New(os.Stderr, verbose)
}

// openDB opens the database connection
func openDB(cfg *config.Config) (*database.DB, error) {
	path := getDBPath(cfg)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// buildService wires the loader, trip cache and filter engine into a query service
// The returned close function releases the cache when one was opened
func buildService(cfg *config.Config, logger logrus.FieldLogger) (*query.Service, func(), error) {
	loaderOpts := []dataset.LoaderOption{dataset.WithLogger(logger)}
	closeFn := func() {}

	if cfg.UseCache {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		loaderOpts = append(loaderOpts, dataset.WithStore(db))
		closeFn = func() { db.Close() }
	}

	loader := dataset.NewLoader(cfg, loaderOpts...)
	svc, err := query.NewServiceFromConfig(cfg, loader, query.WithLogger(logger))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}
