package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jgoulah/bikestats/internal/query"
	"github.com/jgoulah/bikestats/internal/render"
	"github.com/jgoulah/bikestats/internal/stats"
)

var (
	statsCity   string
	statsMonth  string
	statsDay    string
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the statistics report for a city",
	Long: `Loads the city's trips, applies the month and day filters, and prints the
time, station, duration and user statistics.

Formats: text, json, or auto (text on a terminal, json otherwise).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsCity, "city", "", "City to report on (required)")
	statsCmd.Flags().StringVar(&statsMonth, "month", "all", "Month filter (january-june or all)")
	statsCmd.Flags().StringVar(&statsDay, "day", "all", "Day of week filter (sunday-saturday or all)")
	statsCmd.Flags().StringVar(&statsFormat, "format", "auto", "Output format: text, json or auto")
	statsCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(statsFormat, os.Stdout)
	if err != nil {
		return err
	}

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	svc, closeFn, err := buildService(cfg, newLogger())
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.Execute(cmd.Context(), query.Request{City: statsCity, Month: statsMonth, Day: statsDay})
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), format, res.Report)
}

func writeReport(w io.Writer, format string, report *stats.Report) error {
	if format == "json" {
		return render.JSON(w, report)
	}
	return render.Text(w, report)
}

// resolveFormat maps "auto" to text on a terminal and json when piped
func resolveFormat(format string, out *os.File) (string, error) {
	switch format {
	case "text", "json":
		return format, nil
	case "auto":
		if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
			return "text", nil
		}
		return "json", nil
	default:
		return "", fmt.Errorf("unknown format: %s (available: text, json, auto)", format)
	}
}
