package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/pleiabot/internal/service/command"
	"github.com/sandevgo/pleiabot/internal/transport/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions on the console",
	Long:  `Opens an interactive prompt. Answers are printed in full, without post length limits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := NewApp(ctx)

		commands := command.New(command.NewCommands(a.responder, nil))
		rl, err := cli.NewReadLine(a.responder, commands, a.cfg.GetRuntimePath())
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)

		return rl.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
