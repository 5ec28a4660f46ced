package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/bikestats/internal/shell"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively explore bikeshare statistics",
	Long: `Prompts for a city, month and day, prints the statistics report, offers the
raw trip rows a page at a time, and asks whether to start over.`,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()
	svc, closeFn, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	sh := shell.New(cfg, svc, cmd.InOrStdin(), cmd.OutOrStdout(), shell.WithLogger(logger))
	return sh.Run(cmd.Context())
}
