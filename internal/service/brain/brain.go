package brain

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/pkg/log"
)

const ageApology = "Sorry, I can't do time-period answers yet."

type handlerFunc func(ctx context.Context, tokens []string) ([]string, error)

type route struct {
	Directive
	handle handlerFunc
}

// Brain answers questions against one immutable place index snapshot.
type Brain struct {
	index      core.PlaceIndex
	vocab      Vocabulary
	normalizer *Normalizer
	rnd        Random
	routes     []route
}

type Option func(*options)

type options struct {
	vocab      Vocabulary
	rnd        Random
	directives []Directive
}

func WithVocabulary(v Vocabulary) Option {
	return func(o *options) { o.vocab = v }
}

func WithRandom(r Random) Option {
	return func(o *options) { o.rnd = r }
}

func WithDirectives(d []Directive) Option {
	return func(o *options) { o.directives = d }
}

// New builds a brain. Directive handlers are resolved here and an unknown
// handler is a construction error.
func New(index core.PlaceIndex, opts ...Option) (*Brain, error) {
	o := options{
		vocab:      DefaultVocabulary(),
		directives: DefaultDirectives(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rnd == nil {
		o.rnd = NewRandom(0)
	}

	b := &Brain{
		index:      index,
		vocab:      o.vocab.clone(),
		normalizer: NewNormalizer(o.vocab.StopWords),
		rnd:        o.rnd,
	}

	handlers := map[Handler]handlerFunc{
		HandleListLatest: b.answerListLatest,
		HandleMostRecent: b.answerMostRecent,
		HandleNamed:      b.answerNamed,
		HandleListNamed:  b.answerListNamed,
		HandlePID:        b.answerPID,
		HandleListPID:    b.answerListPID,
		HandleAge:        b.answerAge,
	}

	b.routes = make([]route, 0, len(o.directives))
	for _, d := range o.directives {
		h, ok := handlers[d.Handler]
		if !ok {
			return nil, fmt.Errorf("directive %q: unknown handler %s", d.Name, d.Handler)
		}
		if len(d.Matchers) == 0 {
			return nil, fmt.Errorf("directive %q: no matchers", d.Name)
		}
		b.routes = append(b.routes, route{Directive: d, handle: h})
	}

	return b, nil
}

// Normalize exposes the brain's normalizer so indexes can key names the
// same way questions are cleaned.
func (b *Brain) Normalize(raw string) string {
	return b.normalizer.Normalize(raw)
}

func (b *Brain) PlaceCount() int {
	return b.index.Len()
}

// Answer returns zero or more answers. An empty result means nothing in the
// index matched the question.
func (b *Brain) Answer(ctx context.Context, question string) ([]string, error) {
	logger := log.FromCtx(ctx)

	clean := b.normalizer.Normalize(question)
	logger.Debug().Str("clean_question", clean).Msg("question normalized")

	if b.isEasterEgg(clean) {
		return b.easterEgg(), nil
	}

	if !strings.Contains(clean, " ") {
		if clean == "ping" {
			return []string{"pong"}, nil
		}
		if isPlaceID(clean) {
			return b.answerPID(ctx, []string{clean})
		}
	}

	for _, r := range b.routes {
		if !r.Triggered(clean) {
			continue
		}
		logger.Debug().Str("directive", r.Name).Msg("directive triggered")

		tokens, ok := r.Match(clean)
		if !ok {
			logger.Debug().Str("directive", r.Name).Msg("miss")
			continue
		}
		logger.Debug().Str("directive", r.Name).Strs("tokens", tokens).Msg("match")
		return r.handle(ctx, tokens)
	}

	answers, err := b.answerNamed(ctx, []string{clean})
	if err != nil || len(answers) > 0 {
		return answers, err
	}

	tokens := strings.Fields(clean)
	return Reduce(b.rnd, "list named", b.lookupNames(tokens), tokens)
}

// isPlaceID accepts canonical decimal non-negative integers only.
func isPlaceID(s string) bool {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return false
	}
	return strconv.FormatUint(n, 10) == s
}

func (b *Brain) answerListLatest(ctx context.Context, _ []string) ([]string, error) {
	return describeAll(b.index.Get(core.FieldLastModified, ""))
}

func (b *Brain) answerMostRecent(ctx context.Context, _ []string) ([]string, error) {
	return Reduce(b.rnd, "list latest", b.index.Get(core.FieldLastModified, ""), nil)
}

func (b *Brain) answerNamed(ctx context.Context, tokens []string) ([]string, error) {
	results := b.lookupNames(nameCandidates(tokens))
	log.FromCtx(ctx).Debug().Int("count", len(results)).Msg("results in hand")
	return Reduce(b.rnd, "list named", results, tokens)
}

func (b *Brain) answerListNamed(ctx context.Context, tokens []string) ([]string, error) {
	return describeAll(b.lookupNames(nameCandidates(tokens)))
}

func (b *Brain) answerPID(ctx context.Context, tokens []string) ([]string, error) {
	return Reduce(b.rnd, "list pid", b.lookupIDs(tokens), tokens)
}

func (b *Brain) answerListPID(ctx context.Context, tokens []string) ([]string, error) {
	return describeAll(b.lookupIDs(tokens))
}

func (b *Brain) answerAge(ctx context.Context, _ []string) ([]string, error) {
	return []string{ageApology}, nil
}

func (b *Brain) lookupNames(candidates []string) []core.Place {
	var results []core.Place
	for _, c := range candidates {
		results = append(results, b.index.Get(core.FieldName, c)...)
		results = append(results, b.index.Get(core.FieldInName, c)...)
	}
	return dedupe(results)
}

func (b *Brain) lookupIDs(tokens []string) []core.Place {
	var results []core.Place
	for _, t := range tokens {
		results = append(results, b.index.Get(core.FieldID, t)...)
	}
	return dedupe(results)
}
