package command

import (
	"github.com/sandevgo/pleiabot/internal/core"
)

func NewCommands(
	places PlaceCounter,
	mentions core.MentionsRepository,
) []core.Command {
	help := NewHelpCommand()
	return []core.Command{
		help,
		NewStartCommand(help),
		NewStatsCommand(places, mentions),
	}
}
