// Package gazetteer turns the place export on disk into a ready Brain and
// keeps it fresh when the export changes.
package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sandevgo/pleiabot/internal/service/brain"
	store "github.com/sandevgo/pleiabot/internal/storage/gazetteer"
	"github.com/sandevgo/pleiabot/internal/storage/memory"
	"github.com/sandevgo/pleiabot/pkg/log"
)

type Config interface {
	GetGazetteerPath() string
	GetVocabularyPath() string
	GetLatestLimit() int
	GetRandomSeed() int64
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// Build loads the vocabulary and the gazetteer and returns a Brain over a
// fresh index. Nothing is shared with previously built brains.
func (b *Builder) Build(ctx context.Context) (*brain.Brain, error) {
	logger := log.FromCtx(ctx)
	start := time.Now()

	vocab, err := b.vocabulary(ctx)
	if err != nil {
		return nil, err
	}

	places, err := store.Load(ctx, b.cfg.GetGazetteerPath())
	if err != nil {
		return nil, err
	}

	normalizer := brain.NewNormalizer(vocab.StopWords)
	index := memory.NewIndex(places, normalizer.Normalize, b.cfg.GetLatestLimit())

	br, err := brain.New(index,
		brain.WithVocabulary(vocab),
		brain.WithRandom(brain.NewRandom(b.cfg.GetRandomSeed())),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build brain: %w", err)
	}

	logger.Info().
		Int("places", index.Len()).
		Dur("took", time.Since(start)).
		Str("path", b.cfg.GetGazetteerPath()).
		Msg("gazetteer loaded")

	return br, nil
}

func (b *Builder) vocabulary(ctx context.Context) (brain.Vocabulary, error) {
	path := b.cfg.GetVocabularyPath()
	if path == "" {
		return brain.DefaultVocabulary(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.FromCtx(ctx).Debug().Str("path", path).Msg("no vocabulary file, using defaults")
		return brain.DefaultVocabulary(), nil
	}

	return brain.LoadVocabulary(path)
}
