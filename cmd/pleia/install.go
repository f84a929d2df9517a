package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/pleiabot/internal/config"
	"github.com/sandevgo/pleiabot/internal/service/installer"
	"github.com/sandevgo/pleiabot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure PleiaBot and download the gazetteer",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		// Load the newly created .env file so NewAppConfig can see the values
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'pleia start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
