package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/pleiabot/internal/config"
	"github.com/sandevgo/pleiabot/internal/service/command"
	"github.com/sandevgo/pleiabot/internal/transport/poster"
	"github.com/sandevgo/pleiabot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const (
	baseContextKey = "base_context"
	sourceName     = "telegram"
)

type Bot struct {
	bot      *tele.Bot
	cfg      *config.TelegramConfig
	poster   *poster.Poster
	commands *command.Router
	sender   *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	poster *poster.Poster,
	commands *command.Router,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		cfg:      cfg,
		poster:   poster,
		commands: commands,
		sender:   newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: ignore users outside the allow-list
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || !cfg.IsAllowed(c.Sender().ID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Name() string {
	return "telegram bot"
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("username", b.bot.Me.Username).Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// Announce sends a status line to every allow-listed user. With an open
// allow-list there is nobody to address, so it is only logged.
func (b *Bot) Announce(ctx context.Context, text string) {
	logger := log.FromCtx(ctx)
	for _, id := range b.cfg.AllowedUsers {
		if err := b.sender.send(ctx, &tele.User{ID: id}, text); err != nil {
			logger.Warn().Err(err).Int64("user_id", id).Msg("failed to announce")
		}
	}
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	msg := c.Message()
	if !b.addressed(msg) {
		return nil
	}

	if b.commands != nil {
		sessionID := fmt.Sprintf("telegram-%d", msg.Chat.ID)
		if out, ok := b.commands.Execute(ctx, sessionID, msg.Text); ok {
			return b.sender.send(ctx, msg.Chat, out)
		}
	}

	_ = c.Notify(tele.Typing)

	mention := poster.Mention{
		Source:  sourceName,
		EventID: fmt.Sprintf("%d:%d", msg.Chat.ID, msg.ID),
		Querent: querent(c.Sender()),
		Text:    msg.Text,
	}

	err := b.poster.Handle(ctx, mention, func(ctx context.Context, i int, chunk string) error {
		return b.sender.reply(ctx, msg, chunk)
	})
	if err != nil {
		logger.Error().Err(err).Str("event_id", mention.EventID).Msg("failed to answer mention")
	}
	return nil
}

// addressed reports whether a message is meant for the bot: any private
// message, or a group message that mentions the bot or replies to it.
func (b *Bot) addressed(msg *tele.Message) bool {
	if msg == nil || msg.Chat == nil {
		return false
	}
	if msg.Chat.Type == tele.ChatPrivate {
		return true
	}

	me := b.bot.Me
	if me == nil {
		return false
	}
	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil && msg.ReplyTo.Sender.ID == me.ID {
		return true
	}
	return me.Username != "" && strings.Contains(strings.ToLower(msg.Text), "@"+strings.ToLower(me.Username))
}

func querent(u *tele.User) string {
	switch {
	case u == nil:
		return ""
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "":
		return u.FirstName
	default:
		return strconv.FormatInt(u.ID, 10)
	}
}
