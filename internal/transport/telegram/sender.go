package telegram

import (
	"context"
	"errors"
	"strings"

	"github.com/sandevgo/pleiabot/pkg/conv"
	"github.com/sandevgo/pleiabot/pkg/log"
	"github.com/sandevgo/pleiabot/pkg/retry"
	tele "gopkg.in/telebot.v3"
)

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// reply posts a chunk threaded to the asking message. If that message is
// gone the chunk is posted to the chat unthreaded.
func (s *sender) reply(ctx context.Context, to *tele.Message, chunk string) error {
	logger := log.FromCtx(ctx)
	html := render(chunk)

	_, err := s.bot.Reply(to, html, tele.ModeHTML, tele.NoPreview)
	if errors.Is(err, tele.ErrNotFoundToReply) {
		logger.Warn().Int("message_id", to.ID).Msg("reply target vanished, posting unthreaded")
		_, err = s.bot.Send(to.Chat, html, tele.ModeHTML, tele.NoPreview)
	}
	if err != nil {
		logger.Error().Err(err).Int("len", len(chunk)).Msg("failed to send telegram chunk")
	}
	return classify(err)
}

func (s *sender) send(ctx context.Context, to tele.Recipient, text string) error {
	_, err := s.bot.Send(to, render(text), tele.ModeHTML, tele.NoPreview)
	return classify(err)
}

func render(md string) string {
	return strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))
}

// classify stops retries for errors that will not go away.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tele.ErrChatNotFound),
		errors.Is(err, tele.ErrBlockedByUser),
		errors.Is(err, tele.ErrKickedFromGroup),
		errors.Is(err, tele.ErrUserIsDeactivated),
		errors.Is(err, tele.ErrNoRightsToSend):
		return retry.Permanent(err)
	default:
		return err
	}
}
