package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/bikestats/internal/publisher"
	"github.com/jgoulah/bikestats/internal/query"
)

var (
	publishCity  string
	publishMonth string
	publishDay   string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish statistics reports to MQTT",
	Long: `Computes the statistics report for each city and publishes it as JSON to the
configured MQTT broker under <topic_prefix>/<city>/stats.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishCity, "city", "", "City to publish (default: all cities)")
	publishCmd.Flags().StringVar(&publishMonth, "month", "all", "Month filter (january-june or all)")
	publishCmd.Flags().StringVar(&publishDay, "day", "all", "Day of week filter (sunday-saturday or all)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if MQTT is configured
	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	// Determine which cities to publish
	cities := cfg.CityNames()
	if publishCity != "" {
		city := strings.ToLower(strings.TrimSpace(publishCity))
		if !cfg.HasCity(city) {
			return fmt.Errorf("unknown city: %s (available: %s)", city, strings.Join(cfg.CityNames(), ", "))
		}
		cities = []string{city}
	}

	svc, closeFn, err := buildService(cfg, newLogger())
	if err != nil {
		return err
	}
	defer closeFn()

	// Create publisher
	pub, err := publisher.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	published := 0
	for i, city := range cities {
		fmt.Printf("[%d/%d] Publishing %s to %s... ", i+1, len(cities), city, pub.Topic(city))

		res, err := svc.Execute(cmd.Context(), query.Request{City: city, Month: publishMonth, Day: publishDay})
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		if err := pub.Publish(res.Report); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓ (%d trips)\n", res.Report.Trips)
		published++
	}

	fmt.Printf("\nTotal reports published: %d/%d\n", published, len(cities))
	if published < len(cities) {
		return fmt.Errorf("%d report(s) failed to publish", len(cities)-published)
	}
	return nil
}
