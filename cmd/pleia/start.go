package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/pleiabot/pkg/log"
	"github.com/sandevgo/pleiabot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the PleiaBot services",
	Long:  `Loads the gazetteer and starts every configured transport (Telegram, Matrix, console).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting pleiabot")

		// Define services using the setup.go logic
		a := NewApp(ctx)
		services := a.Services(ctx, stop)

		// Start services
		srv.StartServices(ctx, stop, services)
		a.Announce(ctx)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("pleiabot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
