package main

import (
	"fmt"
	"os"

	"github.com/Mshel/patrolsim/internal/config"
	"github.com/Mshel/patrolsim/internal/solver"
	"github.com/Mshel/patrolsim/internal/store"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "patrolsim",
	Short: "Patrol and stone puzzle solver",
	Long: `patrolsim simulates a guard patrolling a grid, counts the obstructions that
trap the guard in a loop, and counts engraved stones after repeated blinks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		log.SetLevel(cfg.Level())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultConfigPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().Bool("no-history", false, "Do not record runs in the history database")
}

// openSolver builds a solver backed by the run history unless --no-history
// is set. The returned func closes the history store.
func openSolver(cmd *cobra.Command) (*solver.Solver, func(), error) {
	noHistory, _ := cmd.Flags().GetBool("no-history")
	if noHistory {
		return solver.New(nil, cfg.Workers), func() {}, nil
	}

	history, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := history.Close(); err != nil {
			log.Error("Could not close run history", "error", err)
		}
	}
	return solver.New(history, cfg.Workers), closer, nil
}
