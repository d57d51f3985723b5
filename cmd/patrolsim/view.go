package main

import (
	"github.com/Mshel/patrolsim/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the interactive terminal viewer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeSolver, err := openSolver(cmd)
		if err != nil {
			return err
		}
		defer closeSolver()

		p := tea.NewProgram(ui.NewControllerModel(cmd.Context(), s, cfg, 0, 0), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
