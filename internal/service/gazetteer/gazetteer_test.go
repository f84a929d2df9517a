package gazetteer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/pleiabot/internal/service/brain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testConfig struct {
	gazetteer  string
	vocabulary string
}

func (c testConfig) GetGazetteerPath() string  { return c.gazetteer }
func (c testConfig) GetVocabularyPath() string { return c.vocabulary }
func (c testConfig) GetLatestLimit() int       { return 10 }
func (c testConfig) GetRandomSeed() int64      { return 1 }

type recordingSwapper struct {
	mu     sync.Mutex
	brains []*brain.Brain
}

func (s *recordingSwapper) Swap(b *brain.Brain) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brains = append(s.brains, b)
}

func (s *recordingSwapper) last() *brain.Brain {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.brains) == 0 {
		return nil
	}
	return s.brains[len(s.brains)-1]
}

func writeGazetteer(t *testing.T, path string, titles ...string) {
	t.Helper()
	graph := ""
	for i, title := range titles {
		if i > 0 {
			graph += ","
		}
		graph += fmt.Sprintf(`{"id": "%d", "title": %q, "uri": "https://pleiades.stoa.org/places/%d", "description": "A place."}`, 1000+i, title, 1000+i)
	}
	require.NoError(t, os.WriteFile(path, []byte(`{"@graph": [`+graph+`]}`), 0644))
}

func TestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	writeGazetteer(t, path, "Athenae", "Roma")

	b, err := NewBuilder(testConfig{gazetteer: path}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, b.PlaceCount())

	answers, err := b.Answer(context.Background(), "named roma")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Contains(t, answers[0], "Roma (1001)")
}

func TestBuilder_Vocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	writeGazetteer(t, path, "Roma")

	vocab := filepath.Join(dir, "vocabulary.yaml")
	require.NoError(t, os.WriteFile(vocab, []byte("easter_eggs:\n  phrases: [\"hello sisters\"]\n  payloads: [\"https://example.org/m45\"]\n"), 0644))

	b, err := NewBuilder(testConfig{gazetteer: path, vocabulary: vocab}).Build(context.Background())
	require.NoError(t, err)

	answers, err := b.Answer(context.Background(), "Hello, sisters!")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/m45"}, answers)
}

func TestBuilder_MissingVocabularyUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	writeGazetteer(t, path, "Roma")

	cfg := testConfig{gazetteer: path, vocabulary: filepath.Join(dir, "missing.yaml")}
	b, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	answers, err := b.Answer(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, []string{"pong"}, answers)
}

func TestBuilder_MissingGazetteer(t *testing.T) {
	_, err := NewBuilder(testConfig{gazetteer: filepath.Join(t.TempDir(), "nope.json")}).Build(context.Background())
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	writeGazetteer(t, path, "Roma")

	target := &recordingSwapper{}
	w := NewWatcher(NewBuilder(testConfig{gazetteer: path}), target)
	w.settle = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	// Rewrite until the watcher has registered and picked a change up.
	require.Eventually(t, func() bool {
		writeGazetteer(t, path, "Roma", "Ostia", "Portus")
		b := target.last()
		return b != nil && b.PlaceCount() == 3
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, w.Shutdown(context.Background()))
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_KeepsPreviousOnBrokenExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	writeGazetteer(t, path, "Roma")

	target := &recordingSwapper{}
	w := NewWatcher(NewBuilder(testConfig{gazetteer: path}), target)
	w.settle = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		require.NoError(t, os.WriteFile(path, []byte(`{"@graph": [`), 0644))
		time.Sleep(30 * time.Millisecond)
	}

	cancel()
	assert.NoError(t, <-errc)
	assert.Nil(t, target.last(), "a broken export must never be swapped in")
}

func TestWatcher_StartFailsWithoutGazetteer(t *testing.T) {
	w := NewWatcher(NewBuilder(testConfig{gazetteer: filepath.Join(t.TempDir(), "nope.json")}), &recordingSwapper{})
	assert.Error(t, w.Start(context.Background()))
	assert.NoError(t, w.Shutdown(context.Background()))
}
