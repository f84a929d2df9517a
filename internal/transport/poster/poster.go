// Package poster is the delivery path shared by the chat transports: it
// answers a mention once, paces the chunks and posts them in order.
package poster

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/pkg/log"
	"github.com/sandevgo/pleiabot/pkg/retry"
	"golang.org/x/time/rate"
)

// Mention is a question addressed to the bot on some transport.
type Mention struct {
	Source  string
	EventID string
	Querent string
	Text    string
}

// DeliverFunc posts chunk i of a reply.
type DeliverFunc func(ctx context.Context, i int, chunk string) error

// Approver decides whether a reply may be posted in supervised mode.
type Approver interface {
	Approve(ctx context.Context, m Mention, chunks []string) (bool, error)
}

type Option func(*Poster)

func WithApprover(a Approver) Option {
	return func(p *Poster) { p.approver = a }
}

func WithRetrier(r *retry.Retrier) Option {
	return func(p *Poster) { p.retrier = r }
}

// WithInterval overrides the pause picked between two posts.
func WithInterval(f func() time.Duration) Option {
	return func(p *Poster) { p.interval = f }
}

type Poster struct {
	responder core.Responder
	mentions  core.MentionsRepository
	cfg       core.PostingConfig
	approver  Approver
	retrier   *retry.Retrier
	interval  func() time.Duration

	// One post at a time across all transports.
	mu      sync.Mutex
	limiter *rate.Limiter
}

func New(
	responder core.Responder,
	mentions core.MentionsRepository,
	cfg core.PostingConfig,
	opts ...Option,
) *Poster {
	p := &Poster{
		responder: responder,
		mentions:  mentions,
		cfg:       cfg,
		retrier:   retry.NewDefaultRetrier(),
	}
	p.interval = p.randomInterval
	for _, opt := range opts {
		opt(p)
	}
	p.limiter = rate.NewLimiter(rate.Every(p.interval()), 1)
	return p
}

// Handle answers one mention. Mentions seen before are skipped, so a
// restarted transport never answers twice. A mention that was marked but
// could not be answered is recorded as a failure.
func (p *Poster) Handle(ctx context.Context, m Mention, deliver DeliverFunc) error {
	ctx = log.WithFields(ctx, "source", m.Source, "event_id", m.EventID)

	if p.mentions != nil {
		first, err := p.mentions.MarkHandled(ctx, m.Source, m.EventID, m.Querent)
		if err != nil {
			return fmt.Errorf("failed to mark mention: %w", err)
		}
		if !first {
			return nil
		}
	}

	rep, posted, err := p.answer(ctx, m, deliver)
	if err != nil {
		p.recordFailure(ctx, m, rep.Question, err)
		return err
	}
	if !posted || p.mentions == nil {
		return nil
	}

	if err := p.mentions.RecordReply(ctx, m.Source, m.EventID, rep.Question, rep.Chunks); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to record reply")
	}
	return nil
}

// answer builds the reply and posts it unless silent mode or the supervisor
// holds it back.
func (p *Poster) answer(ctx context.Context, m Mention, deliver DeliverFunc) (core.Reply, bool, error) {
	rep, err := p.responder.Respond(ctx, m.Querent, m.Text)
	if err != nil {
		return core.Reply{Question: m.Text}, false, err
	}
	ctx = log.WithFields(ctx, "request_id", rep.RequestID)
	logger := log.FromCtx(ctx)

	if p.cfg.IsSilent() {
		for i, chunk := range rep.Chunks {
			logger.Info().Int("chunk", i+1).Int("of", len(rep.Chunks)).Str("text", chunk).Msg("silent mode, not posting")
		}
		return rep, false, nil
	}

	if p.cfg.IsSupervised() && p.approver != nil {
		ok, err := p.approver.Approve(ctx, m, rep.Chunks)
		if err != nil {
			return rep, false, fmt.Errorf("failed to get approval: %w", err)
		}
		if !ok {
			logger.Info().Msg("reply rejected by supervisor")
			return rep, false, nil
		}
	}

	if err := p.post(ctx, rep.Chunks, deliver); err != nil {
		return rep, false, err
	}
	return rep, true, nil
}

func (p *Poster) recordFailure(ctx context.Context, m Mention, question string, cause error) {
	logger := log.FromCtx(ctx)
	logger.Warn().Err(cause).Msg("mention left unanswered")
	if p.mentions == nil {
		return
	}
	// the failure is kept even when ctx was cancelled mid-post
	if err := p.mentions.RecordFailure(context.WithoutCancel(ctx), m.Source, m.EventID, question, cause.Error()); err != nil {
		logger.Error().Err(err).Msg("failed to record failure")
	}
}

func (p *Poster) post(ctx context.Context, chunks []string, deliver DeliverFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := log.FromCtx(ctx)
	for i, chunk := range chunks {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		err := p.retrier.Do(ctx, func() error {
			return deliver(ctx, i, chunk)
		})
		if err != nil {
			return fmt.Errorf("failed to post chunk %d of %d: %w", i+1, len(chunks), err)
		}
		logger.Debug().Int("chunk", i+1).Int("of", len(chunks)).Msg("posted")

		// The next post waits a fresh random interval.
		p.limiter.SetLimit(rate.Every(p.interval()))
	}
	return nil
}

// randomInterval picks a pause in [min, max]. With the defaults that is
// between 1/1.1 s and 1/0.13 s, staying under 300 posts in 5 minutes.
func (p *Poster) randomInterval() time.Duration {
	lo, hi := p.cfg.GetPostInterval()
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)))
}
