package command

import (
	"context"
	"strconv"
	"time"

	"github.com/sandevgo/pleiabot/internal/core"
)

type PlaceCounter interface {
	PlaceCount() int
}

type StatsCommand struct {
	places   PlaceCounter
	mentions core.MentionsRepository
	fmt      *ResponseFormatter
}

func NewStatsCommand(places PlaceCounter, mentions core.MentionsRepository) *StatsCommand {
	return &StatsCommand{
		places:   places,
		mentions: mentions,
		fmt:      NewResponseFormatter(),
	}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "What the bot knows and how much it was asked"
}

func (c *StatsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sections := []string{
		c.fmt.Info("Statistics"),
		c.fmt.Label("Places", strconv.Itoa(c.places.PlaceCount())),
	}

	if c.mentions != nil {
		stats, err := c.mentions.Stats(ctx)
		if err != nil {
			return c.fmt.Error("stats", err), nil
		}
		last := "never"
		if !stats.LastHandled.IsZero() {
			last = stats.LastHandled.UTC().Format(time.DateTime)
		}
		sections = append(sections,
			c.fmt.Label("Questions", strconv.Itoa(stats.Handled)),
			c.fmt.Label("Replies", strconv.Itoa(stats.Replies)),
			c.fmt.Label("Failed", strconv.Itoa(stats.Failed)),
			c.fmt.Label("Last question", last),
		)
	}

	return c.fmt.Combine(sections...), nil
}
