package main

import (
	"fmt"

	"github.com/Mshel/patrolsim/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		page, _ := cmd.Flags().GetInt("page")
		if limit < 1 || page < 1 {
			return fmt.Errorf("limit and page must be positive")
		}
		offset := (page - 1) * limit

		history, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer history.Close()

		patrolRuns, err := history.RecentPatrolRuns(limit, offset)
		if err != nil {
			return err
		}
		stoneRuns, err := history.RecentStoneRuns(limit, offset)
		if err != nil {
			return err
		}
		patrolTotal, stoneTotal, err := history.CountRuns()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Patrol runs (%d total):\n", patrolTotal)
		if len(patrolRuns) == 0 {
			fmt.Fprintln(out, "  none")
		}
		for _, r := range patrolRuns {
			fmt.Fprintf(out, "  #%d %s %dx%d visited=%d loops=%d %s %s\n",
				r.ID, r.Input, r.Rows, r.Cols, r.Visited, r.LoopPositions, r.Duration, store.FormatWhen(r.CreatedAt))
		}

		fmt.Fprintf(out, "Stone runs (%d total):\n", stoneTotal)
		if len(stoneRuns) == 0 {
			fmt.Fprintln(out, "  none")
		}
		for _, r := range stoneRuns {
			fmt.Fprintf(out, "  #%d [%s] blinks=%d total=%s %s %s\n",
				r.ID, r.Stones, r.Blinks, r.Total, r.Duration, store.FormatWhen(r.CreatedAt))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Runs per page")
	historyCmd.Flags().Int("page", 1, "Page number, starting at 1")
	rootCmd.AddCommand(historyCmd)
}
