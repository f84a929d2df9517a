// Package matrix answers mentions in Matrix rooms.
package matrix

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/sandevgo/pleiabot/internal/config"
	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/internal/service/command"
	"github.com/sandevgo/pleiabot/internal/transport/poster"
	"github.com/sandevgo/pleiabot/pkg/conv"
	"github.com/sandevgo/pleiabot/pkg/log"
	"github.com/sandevgo/pleiabot/pkg/retry"
)

const (
	sourceName     = "matrix"
	reconnectDelay = 15 * time.Second
)

type Client struct {
	cfg       *config.MatrixConfig
	poster    *poster.Poster
	commands  *command.Router
	client    *mautrix.Client
	startTime int64
	credFile  string

	// handlers in flight, waited for on shutdown
	wg sync.WaitGroup
}

// credentials holds saved Matrix login state.
type credentials struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	DeviceID    string `json:"device_id"`
}

func NewClient(cfg *config.MatrixConfig, poster *poster.Poster, commands *command.Router) (*Client, error) {
	fullUserID := fmt.Sprintf("@%s:%s", cfg.UserID, cfg.ServerName)
	client, err := mautrix.NewClient(cfg.Homeserver, id.UserID(fullUserID), "")
	if err != nil {
		return nil, fmt.Errorf("failed to create matrix client: %w", err)
	}
	// Resync on restart; the mentions table keeps us from answering twice.
	client.Store = mautrix.NewMemorySyncStore()
	client.UserAgent = core.PleiaUserAgent

	return &Client{
		cfg:      cfg,
		poster:   poster,
		commands: commands,
		client:   client,
		credFile: filepath.Join(cfg.DataDir, "matrix_credentials.json"),
	}, nil
}

func (c *Client) Name() string {
	return "matrix client"
}

// Login restores saved credentials or logs in with the password.
func (c *Client) Login(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if err := os.MkdirAll(c.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create matrix data dir: %w", err)
	}

	if err := c.loadCredentials(); err == nil {
		logger.Info().Str("user", c.client.UserID.String()).Msg("loaded saved matrix credentials")
		return nil
	}

	retrier := retry.NewRetrier(&retry.Config{
		MaxRetries:    9,
		BackoffFactor: 2,
		InitialDelay:  2 * time.Second,
		MaxDelay:      2 * time.Minute,
		Jitter:        500 * time.Millisecond,
	})

	return retrier.Do(ctx, func() error {
		logger.Info().Str("homeserver", c.cfg.Homeserver).Str("user", c.cfg.UserID).Msg("logging into matrix")

		resp, err := c.client.Login(ctx, &mautrix.ReqLogin{
			Type: mautrix.AuthTypePassword,
			Identifier: mautrix.UserIdentifier{
				Type: mautrix.IdentifierTypeUser,
				User: c.cfg.UserID,
			},
			Password:         c.cfg.Password,
			StoreCredentials: true,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("matrix login failed")
			if nonRetryable(err) {
				return retry.Permanent(fmt.Errorf("matrix login: %w", err))
			}
			return err
		}

		logger.Info().Str("user", resp.UserID.String()).Str("device", string(resp.DeviceID)).Msg("logged into matrix")
		if err := c.saveCredentials(credentials{
			AccessToken: resp.AccessToken,
			UserID:      resp.UserID.String(),
			DeviceID:    string(resp.DeviceID),
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to save matrix credentials")
		}
		return nil
	})
}

func (c *Client) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	c.startTime = time.Now().UnixMilli()

	syncer := c.client.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, func(_ context.Context, evt *event.Event) {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.onMessage(ctx, evt)
		}()
	})
	syncer.OnEventType(event.StateMember, func(_ context.Context, evt *event.Event) {
		c.onMemberEvent(ctx, evt)
	})

	logger.Info().Msg("matrix client ready, starting sync")

	for {
		err := c.client.SyncWithContext(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			logger.Warn().Err(err).Dur("delay", reconnectDelay).Msg("matrix sync error, reconnecting")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(reconnectDelay):
			}
		}
	}
}

func (c *Client) Shutdown(ctx context.Context) error {
	c.client.StopSync()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Announce posts a status line to every joined room.
func (c *Client) Announce(ctx context.Context, text string) {
	logger := log.FromCtx(ctx)

	rooms, err := c.client.JoinedRooms(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to list joined rooms")
		return
	}
	for _, room := range rooms.JoinedRooms {
		if _, err := c.client.SendMessageEvent(ctx, room, event.EventMessage, newContent(text)); err != nil {
			logger.Warn().Err(err).Str("room", room.String()).Msg("failed to announce")
		}
	}
}

func (c *Client) onMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == c.client.UserID || evt.Timestamp < c.startTime {
		return
	}
	if !c.cfg.IsAllowed(evt.Sender.String()) {
		return
	}

	msg := evt.Content.AsMessage()
	if msg == nil || msg.Body == "" || msg.MsgType != event.MsgText {
		return
	}
	if !c.addressed(ctx, evt.RoomID, msg) {
		return
	}

	logger := log.FromCtx(ctx)
	text := c.stripAddress(msg.Body)

	if c.commands != nil {
		if out, ok := c.commands.Execute(ctx, evt.RoomID.String(), text); ok {
			content := newContent(out)
			content.RelatesTo = (&event.RelatesTo{}).SetReplyTo(evt.ID)
			if _, err := c.client.SendMessageEvent(ctx, evt.RoomID, event.EventMessage, content); err != nil {
				logger.Error().Err(err).Str("room", evt.RoomID.String()).Msg("failed to send command result")
			}
			return
		}
	}

	mention := poster.Mention{
		Source:  sourceName,
		EventID: evt.ID.String(),
		Querent: evt.Sender.String(),
		Text:    text,
	}

	err := c.poster.Handle(ctx, mention, func(ctx context.Context, i int, chunk string) error {
		content := newContent(chunk)
		content.RelatesTo = (&event.RelatesTo{}).SetReplyTo(evt.ID)

		_, err := c.client.SendMessageEvent(ctx, evt.RoomID, event.EventMessage, content)
		if err != nil && nonRetryable(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("room", evt.RoomID.String()).Msg("failed to answer mention")
	}
}

func (c *Client) onMemberEvent(ctx context.Context, evt *event.Event) {
	logger := log.FromCtx(ctx)

	if evt.GetStateKey() != c.client.UserID.String() {
		return
	}
	member := evt.Content.AsMember()
	if member == nil || member.Membership != event.MembershipInvite {
		return
	}
	if !c.cfg.IsAllowed(evt.Sender.String()) {
		logger.Warn().Str("sender", evt.Sender.String()).Msg("rejecting invite from unauthorized user")
		return
	}

	logger.Info().Str("room", evt.RoomID.String()).Str("from", evt.Sender.String()).Msg("accepting room invite")
	if _, err := c.client.JoinRoomByID(ctx, evt.RoomID); err != nil {
		logger.Error().Err(err).Str("room", evt.RoomID.String()).Msg("failed to join room")
	}
}

// addressed reports whether the message is meant for the bot: it mentions
// the bot, or it was sent in a room the two of them share alone.
func (c *Client) addressed(ctx context.Context, room id.RoomID, msg *event.MessageEventContent) bool {
	if msg.Mentions != nil && slices.Contains(msg.Mentions.UserIDs, c.client.UserID) {
		return true
	}
	if mentionsUser(msg.Body, c.client.UserID, c.cfg.UserID) {
		return true
	}

	members, err := c.client.JoinedMembers(ctx, room)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("room", room.String()).Msg("failed to list room members")
		return false
	}
	return len(members.Joined) == 2
}

// stripAddress drops a leading "name:" pill that clients put in front of a
// mention, so that only the question remains.
func (c *Client) stripAddress(body string) string {
	trimmed := strings.TrimSpace(body)
	for _, prefix := range []string{c.client.UserID.String() + ":", c.cfg.UserID + ":"} {
		if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
			return strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return trimmed
}

func mentionsUser(body string, userID id.UserID, localpart string) bool {
	lower := strings.ToLower(body)
	if strings.Contains(lower, strings.ToLower(userID.String())) {
		return true
	}
	return localpart != "" && strings.HasPrefix(lower, strings.ToLower(localpart)+":")
}

func newContent(text string) *event.MessageEventContent {
	return &event.MessageEventContent{
		MsgType:       event.MsgText,
		Body:          text,
		Format:        event.FormatHTML,
		FormattedBody: strings.TrimSpace(conv.MarkdownToMatrixHTML([]byte(text))),
	}
}

func nonRetryable(err error) bool {
	s := err.Error()
	return strings.Contains(s, "M_FORBIDDEN") ||
		strings.Contains(s, "M_UNKNOWN_TOKEN") ||
		strings.Contains(s, "M_INVALID_PARAM")
}

func (c *Client) loadCredentials() error {
	data, err := os.ReadFile(c.credFile)
	if err != nil {
		return err
	}
	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return err
	}
	if creds.AccessToken == "" {
		return fmt.Errorf("no access token in %s", c.credFile)
	}
	c.client.AccessToken = creds.AccessToken
	c.client.UserID = id.UserID(creds.UserID)
	c.client.DeviceID = id.DeviceID(creds.DeviceID)
	return nil
}

func (c *Client) saveCredentials(creds credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.credFile, data, 0o600)
}
