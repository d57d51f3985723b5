package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var patrolCmd = &cobra.Command{
	Use:   "patrol [grid-file]",
	Short: "Count visited cells and loop-inducing obstructions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cfg.InputPath
		if len(args) == 1 {
			input = args[0]
		}
		if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
			cfg.Workers = workers
		}

		s, closeSolver, err := openSolver(cmd)
		if err != nil {
			return err
		}
		defer closeSolver()

		report, err := s.SolvePatrol(cmd.Context(), input, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Visited cells: %d\n", report.Visited)
		fmt.Fprintf(out, "Loop positions: %d\n", report.LoopPositions)
		if showTraps, _ := cmd.Flags().GetBool("traps"); showTraps {
			for _, c := range report.Traps {
				fmt.Fprintf(out, "  (%d, %d)\n", c.Row, c.Col)
			}
		}
		fmt.Fprintf(out, "Elapsed: %s\n", report.Duration.Round(time.Microsecond))
		return nil
	},
}

func init() {
	patrolCmd.Flags().Int("workers", 0, "Obstruction search workers (default from config)")
	patrolCmd.Flags().Bool("traps", false, "List every loop-inducing obstruction")
	rootCmd.AddCommand(patrolCmd)
}
