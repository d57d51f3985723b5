package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/patrolsim/internal/stones"
	"github.com/spf13/cobra"
)

var errNoStones = errors.New("no stones given")

var stonesCmd = &cobra.Command{
	Use:   "stones [value...]",
	Short: "Count stones after each configured number of blinks",
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(cfg.Stones, " ")
		if len(args) > 0 {
			text = strings.Join(args, " ")
		}
		values, err := stones.ParseValues(text)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return errNoStones
		}

		blinks := cfg.Blinks
		if cmd.Flags().Changed("blinks") {
			blinks, _ = cmd.Flags().GetIntSlice("blinks")
			for _, b := range blinks {
				if b < 0 || b > cfg.MaxBlinks {
					return fmt.Errorf("blink count %d outside 0..%d", b, cfg.MaxBlinks)
				}
			}
		}

		s, closeSolver, err := openSolver(cmd)
		if err != nil {
			return err
		}
		defer closeSolver()

		reports, err := s.SolveStones(cmd.Context(), values, blinks)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range reports {
			fmt.Fprintf(out, "%d blinks: %s stones (%s)\n", r.Blinks, r.Total.String(), r.Duration.Round(time.Microsecond))
		}
		return nil
	},
}

func init() {
	stonesCmd.Flags().IntSlice("blinks", nil, "Blink counts to report (default from config)")
	rootCmd.AddCommand(stonesCmd)
}
