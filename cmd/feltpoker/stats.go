package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feltworks/feltpoker/domain/poker"
	"github.com/feltworks/feltpoker/domain/table"
	"github.com/feltworks/feltpoker/store"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [file.ppst]",
		Short: "Show player aggregates from a stats file or the database",
		Long: "With a file argument, reads a saved stats snapshot. Without one, " +
			"queries the database named by FELTPOKER_DATABASE_URL.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return statsFromFile(args[0])
			}
			return statsFromDB(cmd)
		},
	}
	return cmd
}

func statsFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", poker.ErrNotFound, path)
		}
		return err
	}
	defer f.Close()

	entries, err := table.LoadStats(f)
	if err != nil {
		return err
	}
	renderStandings(entries)
	return nil
}

func statsFromDB(cmd *cobra.Command) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("%w: no stats file given and FELTPOKER_DATABASE_URL is not set", poker.ErrNotFound)
	}
	ctx := cmd.Context()
	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.LoadStats(ctx)
	if err != nil {
		return err
	}
	renderStandings(entries)
	return nil
}
