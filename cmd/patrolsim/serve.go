package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mshel/patrolsim/internal/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the terminal viewer over SSH",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.SSH.Port = port
		}

		s, closeSolver, err := openSolver(cmd)
		if err != nil {
			return err
		}
		defer closeSolver()

		srv, err := server.New(cfg, s)
		if err != nil {
			return err
		}

		serverDone := make(chan error, 1)
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signals)

		go func() {
			serverDone <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverDone:
			return err
		case <-signals:
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Could not stop server", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "", "SSH port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
