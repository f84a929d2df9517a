package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/internal/service/command"
	"github.com/sandevgo/pleiabot/internal/service/responder"
	"github.com/sandevgo/pleiabot/internal/service/ui"
	"github.com/sandevgo/pleiabot/pkg/log"
)

const sessionID = "cli-local"

type ReadLine struct {
	answerer core.Answerer
	commands *command.Router
	rl       *readline.Instance
}

func NewReadLine(answerer core.Answerer, commands *command.Router, runtimePath string) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pleia> ",
		HistoryFile:     filepath.Join(runtimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		answerer: answerer,
		commands: commands,
		rl:       rl,
	}, nil
}

func (r *ReadLine) Name() string {
	return "console"
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("Ask about ancient places. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		if r.commands != nil {
			if out, ok := r.commands.Execute(ctx, sessionID, line); ok {
				fmt.Fprintln(r.rl.Stdout(), out)
				continue
			}
		}

		if err := Ask(ctx, r.answerer, r.rl.Stdout(), line); err != nil {
			logger.Error().Err(err).Msg("answer failed")
			fmt.Fprintln(r.rl.Stdout(), ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Ask prints the raw answers to one question, separated by blank lines.
// Console answers are not cut down to a post budget.
func Ask(ctx context.Context, answerer core.Answerer, out io.Writer, question string) error {
	answers, err := answerer.Answer(ctx, question)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		fmt.Fprintln(out, ui.DescStyle.Render(responder.Apology))
		return nil
	}
	for i, a := range answers {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, ui.AnswerStyle.Render(a))
	}
	return nil
}
