package command

import (
	"context"
)

var examples = []string{
	"named athenae",
	"list named roma",
	"pid 579885",
	"pid https://pleiades.stoa.org/places/579885",
	"list pid 579885 423025",
	"latest",
	"list latest",
}

type HelpCommand struct {
	fmt *ResponseFormatter
}

func NewHelpCommand() *HelpCommand {
	return &HelpCommand{fmt: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "How to ask about places"
}

func (c *HelpCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.fmt.Combine(
		c.fmt.Info("Ask me about ancient places"),
		c.fmt.List([]string{
			"a place name, or *named* followed by one, gives one match",
			"*list named* gives every match",
			"a Pleiades ID or place URL, or *pid* followed by one, describes that place",
			"*latest* and *list latest* show recently modified places",
		}),
		c.fmt.Examples(examples),
		c.fmt.Tip("when a question has several matches I describe one of them and tell you how to get them all"),
	), nil
}

// StartCommand greets new Telegram users with the help text.
type StartCommand struct {
	help *HelpCommand
}

func NewStartCommand(help *HelpCommand) *StartCommand {
	return &StartCommand{help: help}
}

func (c *StartCommand) Name() string {
	return "start"
}

func (c *StartCommand) Description() string {
	return "Introduction"
}

func (c *StartCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	return c.help.Execute(ctx, sessionID, args)
}
