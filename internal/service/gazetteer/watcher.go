package gazetteer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sandevgo/pleiabot/internal/service/brain"
	"github.com/sandevgo/pleiabot/pkg/log"
)

const defaultSettle = 500 * time.Millisecond

// Swapper receives every successfully rebuilt brain.
type Swapper interface {
	Swap(b *brain.Brain)
}

// Watcher rebuilds the brain when the gazetteer or vocabulary file changes.
// A failed rebuild keeps the previous brain in service.
type Watcher struct {
	builder *Builder
	target  Swapper
	settle  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(builder *Builder, target Swapper) *Watcher {
	return &Watcher{
		builder: builder,
		target:  target,
		settle:  defaultSettle,
	}
}

func (w *Watcher) Name() string {
	return "gazetteer watcher"
}

func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	paths, err := w.watchPaths()
	if err != nil {
		fw.Close()
		return err
	}
	for _, p := range paths {
		if err := fw.Add(p); err != nil {
			fw.Close()
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	log.FromCtx(ctx).Info().Strs("paths", paths).Msg("watching gazetteer for changes")

	defer close(done)
	defer fw.Close()
	w.loop(ctx, fw)
	return nil
}

func (w *Watcher) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	logger := log.FromCtx(ctx)

	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("gazetteer changed")
			// Exports are written in several steps; wait for them to settle.
			timer.Reset(w.settle)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("gazetteer watcher error")

		case <-timer.C:
			b, err := w.builder.Build(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("gazetteer reload failed, keeping previous")
				continue
			}
			w.target.Swap(b)
			logger.Info().Int("places", b.PlaceCount()).Msg("gazetteer reloaded")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	gazetteer := filepath.Clean(w.builder.cfg.GetGazetteerPath())
	if vocab := w.builder.cfg.GetVocabularyPath(); vocab != "" && name == filepath.Clean(vocab) {
		return true
	}
	if name == gazetteer {
		return true
	}

	inTree := strings.HasPrefix(name, gazetteer+string(filepath.Separator))
	return inTree && filepath.Ext(name) == ".json"
}

// watchPaths returns the directories to watch. Files are watched through
// their parent so that atomic replace-by-rename is seen.
func (w *Watcher) watchPaths() ([]string, error) {
	cfg := w.builder.cfg
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	gazetteer := cfg.GetGazetteerPath()
	info, err := os.Stat(gazetteer)
	if err != nil {
		return nil, fmt.Errorf("failed to stat gazetteer: %w", err)
	}

	if info.IsDir() {
		err := filepath.WalkDir(gazetteer, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk gazetteer: %w", err)
		}
	} else {
		add(filepath.Dir(gazetteer))
	}

	if vocab := cfg.GetVocabularyPath(); vocab != "" {
		if _, err := os.Stat(filepath.Dir(vocab)); err == nil {
			add(filepath.Dir(vocab))
		}
	}

	return paths, nil
}
