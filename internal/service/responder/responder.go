// Package responder turns a mention into the bounded chunks to post back.
package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/internal/service/brain"
	"github.com/sandevgo/pleiabot/internal/service/reply"
	"github.com/sandevgo/pleiabot/pkg/log"
)

const Apology = "Sorry, I don't know about any places that match your question."

var ErrNoBrain = errors.New("no gazetteer loaded")

type Responder struct {
	brain atomic.Pointer[brain.Brain]
	cfg   core.ReplyConfig
}

func New(b *brain.Brain, cfg core.ReplyConfig) *Responder {
	r := &Responder{cfg: cfg}
	r.brain.Store(b)
	return r
}

// Swap puts a freshly built brain in service. Requests already running keep
// the brain they started with.
func (r *Responder) Swap(b *brain.Brain) {
	if b == nil {
		return
	}
	r.brain.Store(b)
}

func (r *Responder) PlaceCount() int {
	b := r.brain.Load()
	if b == nil {
		return 0
	}
	return b.PlaceCount()
}

func (r *Responder) Answer(ctx context.Context, question string) ([]string, error) {
	b := r.brain.Load()
	if b == nil {
		return nil, ErrNoBrain
	}
	return b.Answer(ctx, question)
}

func (r *Responder) Respond(ctx context.Context, querent, text string) (core.Reply, error) {
	requestID := uuid.NewString()
	ctx = log.WithFields(ctx, "request_id", requestID)
	logger := log.FromCtx(ctx)
	start := time.Now()

	question := StripMentions(text)
	out := core.Reply{RequestID: requestID, Question: question}
	logger.Info().Str("querent", querent).Str("question", question).Msg("question received")

	answers, err := r.Answer(ctx, question)
	if err != nil {
		return out, fmt.Errorf("failed to answer: %w", err)
	}
	if len(answers) == 0 {
		answers = []string{Apology}
	}
	out.Answers = answers

	chunks, err := reply.BuildChunks(answers, querent, r.budget(), r.cfg.GetMaxAnswers())
	if err != nil {
		return out, fmt.Errorf("failed to build reply: %w", err)
	}
	out.Chunks = chunks

	logger.Info().
		Int("answers", len(answers)).
		Int("chunks", len(chunks)).
		Dur("took", time.Since(start)).
		Msg("reply ready")

	return out, nil
}

func (r *Responder) budget() int {
	if b := r.cfg.GetReplyBudget(); b > 0 {
		return b
	}
	return reply.DefaultBudget
}

// StripMentions drops every @word so that only the question remains.
func StripMentions(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if !strings.HasPrefix(w, "@") {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
