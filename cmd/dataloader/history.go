package main

import (
	"github.com/spf13/cobra"

	"github.com/rrbanda/dataloader/internal/history"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent ingestion runs from the local ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.History.Enabled {
			cmd.Println("Run history is disabled in configuration")
			return nil
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context(), flagHistoryLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No runs recorded yet")
			return nil
		}

		for _, run := range runs {
			cmd.Printf("%s  %s  env=%s  systems=%d  events=%d  failed=%d",
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.RunID, run.Environment,
				run.SystemCount, run.EventCount, run.FailedCount)
			if run.FailedIDs != "" {
				cmd.Printf("  (%s)", run.FailedIDs)
			}
			cmd.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "maximum runs to show")
}
