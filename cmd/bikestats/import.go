package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/bikestats/internal/dataset"
)

var importCmd = &cobra.Command{
	Use:   "import [city...]",
	Short: "Import city CSV files into the trip cache",
	Long: `Reads each city's CSV file and stores its trips in the local SQLite cache,
replacing anything previously imported for that city. With no arguments every
configured city is imported.

Set use_cache: true in the config to answer queries from the cache.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Import started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cities := cfg.CityNames()
	if len(args) > 0 {
		cities = make([]string, 0, len(args))
		for _, city := range args {
			city = strings.ToLower(strings.TrimSpace(city))
			if !cfg.HasCity(city) {
				return fmt.Errorf("unknown city: %s (available: %s)", city, strings.Join(cfg.CityNames(), ", "))
			}
			cities = append(cities, city)
		}
	}

	// Open database
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	loader := dataset.NewLoader(cfg, dataset.WithLogger(newLogger()))

	for _, city := range cities {
		fmt.Printf("Reading %s...\n", city)
		ds, err := loader.LoadCSV(ctx, city)
		if err != nil {
			return fmt.Errorf("importing %s: %w", city, err)
		}

		if err := db.ReplaceCity(ctx, city, ds.Schema, ds.Trips); err != nil {
			return fmt.Errorf("saving %s: %w", city, err)
		}
		fmt.Printf("✓ Stored %s trips for %s\n", humanize.Comma(int64(ds.Len())), city)
	}

	// Summarize the cache contents
	infos, err := db.ListCities(ctx)
	if err != nil {
		return fmt.Errorf("listing cached cities: %w", err)
	}
	fmt.Println("\nCached cities:")
	fmt.Println("----------------------------------------")
	for _, info := range infos {
		fmt.Printf("%-16s %12s trips  imported %s\n", info.Name, humanize.Comma(int64(info.Trips)), humanize.Time(info.ImportedAt))
	}
	fmt.Println("----------------------------------------")

	return nil
}
