package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/bikestats/internal/query"
	"github.com/jgoulah/bikestats/internal/render"
)

var (
	listCity   string
	listMonth  string
	listDay    string
	listOffset int
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List raw trip rows",
	Long:  `Displays raw trip rows for a city after applying the month and day filters.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCity, "city", "", "City to list trips for (required)")
	listCmd.Flags().StringVar(&listMonth, "month", "all", "Month filter (january-june or all)")
	listCmd.Flags().StringVar(&listDay, "day", "all", "Day of week filter (sunday-saturday or all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of matching trips to skip")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Number of trips to show (0 = page size from config)")
	listCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if listOffset < 0 {
		return fmt.Errorf("--offset must not be negative")
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

	res, err := svc.Execute(cmd.Context(), query.Request{City: listCity, Month: listMonth, Day: listDay})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := res.Dataset.Len()
	if total == 0 {
		fmt.Fprintf(out, "No trips found for %s\n", render.Title(res.Dataset.City))
		return nil
	}

	limit := listLimit
	if limit <= 0 {
		limit = cfg.GetPageSize()
	}

	page := res.Dataset.Page(listOffset, limit)
	if len(page) == 0 {
		fmt.Fprintf(out, "Offset %d is past the last of %s trips\n", listOffset, humanize.Comma(int64(total)))
		return nil
	}

	fmt.Fprintf(out, "\n%s Trips (month: %s, day: %s):\n", render.Title(res.Dataset.City), res.Report.Month, res.Report.Day)
	if err := render.Trips(out, page); err != nil {
		return err
	}
	fmt.Fprintf(out, "Showing %d-%d of %s trips\n", listOffset+1, listOffset+len(page), humanize.Comma(int64(total)))
	return nil
}
