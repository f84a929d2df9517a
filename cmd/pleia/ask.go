package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/pleiabot/internal/service/reply"
	"github.com/sandevgo/pleiabot/internal/service/ui"
	"github.com/sandevgo/pleiabot/internal/transport/cli"
	"github.com/spf13/cobra"
)

var querent string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question and exit",
	Long: `Answers a single question. With --as the reply is shown the way it would be
posted to that querent: prefixed, shortened and split into chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a := NewApp(ctx)
		question := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		if querent == "" {
			return cli.Ask(ctx, a.responder, out, question)
		}

		rep, err := a.responder.Respond(ctx, querent, question)
		if err != nil {
			return err
		}
		for i, chunk := range rep.Chunks {
			fmt.Fprintln(out, ui.ChunkStyle.Render(fmt.Sprintf("chunk %d/%d, %d characters", i+1, len(rep.Chunks), reply.Len(chunk))))
			fmt.Fprintln(out, ui.QuoteStyle.Render(reply.BlockQuote(chunk)))
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&querent, "as", "", "show the reply as posted to this querent, e.g. @alice")
	rootCmd.AddCommand(askCmd)
}
