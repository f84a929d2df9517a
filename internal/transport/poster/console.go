package poster

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/sandevgo/pleiabot/internal/service/reply"
	"github.com/sandevgo/pleiabot/internal/service/ui"
)

// ConsoleApprover shows every reply as block quotes on the terminal and asks
// the operator whether to post it.
type ConsoleApprover struct {
	mu       sync.Mutex
	out      io.Writer
	readLine func() (string, error)
	close    func() error
}

func NewConsoleApprover() (*ConsoleApprover, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Post this reply? [y/N] ",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open console: %w", err)
	}
	return &ConsoleApprover{
		out:      rl.Stdout(),
		readLine: rl.Readline,
		close:    rl.Close,
	}, nil
}

func (a *ConsoleApprover) Approve(ctx context.Context, m Mention, chunks []string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintln(a.out, ui.TitleStyle.Render(fmt.Sprintf("%s asks on %s:", m.Querent, m.Source)))
	fmt.Fprintln(a.out, ui.QuoteStyle.Render(reply.BlockQuote(m.Text)))
	fmt.Fprintln(a.out)
	for i, chunk := range chunks {
		fmt.Fprintln(a.out, ui.ChunkStyle.Render(fmt.Sprintf("chunk %d/%d, %d characters", i+1, len(chunks), reply.Len(chunk))))
		fmt.Fprintln(a.out, ui.QuoteStyle.Render(reply.BlockQuote(chunk)))
		fmt.Fprintln(a.out)
	}

	line, err := a.readLine()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (a *ConsoleApprover) Name() string {
	return "console approver"
}

func (a *ConsoleApprover) Start(ctx context.Context) error {
	return nil
}

func (a *ConsoleApprover) Shutdown(ctx context.Context) error {
	if a.close != nil {
		return a.close()
	}
	return nil
}

