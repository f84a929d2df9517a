package gazetteer

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `{
  "@context": {},
  "@graph": [
    {
      "id": "579885",
      "title": "Athenae",
      "uri": "https://pleiades.stoa.org/places/579885",
      "description": "  Principal city of Attica  ",
      "details": "<p>First paragraph.</p><p>Second paragraph.</p>",
      "modified": "2020-01-01T00:00:00Z",
      "history": [{"modified": "2023-02-03T04:05:06.123456"}, {"modified": "not a date"}],
      "names": [
        {"romanized": "Athenae, Athenai", "attested": "Ἀθῆναι"},
        {"romanized": "", "attested": ""}
      ]
    },
    {
      "id": 570685,
      "title": "Lacedaemon",
      "uri": "https://pleiades.stoa.org/places/570685",
      "description": "Chief city of Laconia",
      "names": [{"romanized": "Sparta"}]
    }
  ]
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func assertExport(t *testing.T, places []core.Place) {
	t.Helper()
	require.Len(t, places, 2)

	athens := places[0]
	assert.Equal(t, "579885", athens.ID)
	assert.Equal(t, "Athenae", athens.Title)
	assert.Equal(t, "https://pleiades.stoa.org/places/579885", athens.URI)
	assert.Equal(t, "Principal city of Attica", athens.Description)
	assert.Equal(t, []string{"Athenae", "Athenai", "Ἀθῆναι"}, athens.Names)
	assert.Equal(t, time.Date(2023, 2, 3, 4, 5, 6, 123456000, time.UTC), athens.Modified)
	assert.Contains(t, athens.Details, "First paragraph.")
	assert.Contains(t, athens.Details, "Second paragraph.")
	assert.NotContains(t, athens.Details, "<p>")

	sparta := places[1]
	assert.Equal(t, "570685", sparta.ID)
	assert.Equal(t, []string{"Sparta"}, sparta.Names)
	assert.True(t, sparta.Modified.IsZero())
	assert.Empty(t, sparta.Details)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pleiades-places.json")
	writeFile(t, path, export)

	places, err := Load(context.Background(), path)
	require.NoError(t, err)
	assertExport(t, places)
}

func TestLoad_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pleiades-places.json.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(export))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	places, err := Load(context.Background(), path)
	require.NoError(t, err)
	assertExport(t, places)
}

func TestLoad_Tree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "5", "7", "579885.json"), `{"id": "579885", "title": "Athenae"}`)
	writeFile(t, filepath.Join(root, "4", "2", "423025.json"), `{"id": "423025", "title": "Roma"}`)
	writeFile(t, filepath.Join(root, "README.txt"), "not a place")

	places, err := Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, places, 2)

	titles := []string{places[0].Title, places[1].Title}
	assert.ElementsMatch(t, []string{"Athenae", "Roma"}, titles)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat gazetteer")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		writeFile(t, path, `{"@graph": [{"id": "1", `)

		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})

	t.Run("malformed file in tree", func(t *testing.T) {
		root := filepath.Join(dir, "tree")
		writeFile(t, filepath.Join(root, "ok.json"), `{"id": "1", "title": "Roma"}`)
		writeFile(t, filepath.Join(root, "bad.json"), `[`)

		_, err := Load(context.Background(), root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.json")
	})

	t.Run("not a gzip", func(t *testing.T) {
		path := filepath.Join(dir, "plain.json.gz")
		writeFile(t, path, export)

		_, err := Load(context.Background(), path)
		require.Error(t, err)
	})

	t.Run("cancelled walk", func(t *testing.T) {
		root := filepath.Join(dir, "cancelled")
		writeFile(t, filepath.Join(root, "a.json"), `{"id": "1", "title": "Roma"}`)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Load(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDecode(t *testing.T) {
	t.Run("single place", func(t *testing.T) {
		places, err := Decode(strings.NewReader(`{"id": "423025", "title": " Roma "}`))
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Roma", places[0].Title)
	})

	t.Run("empty graph", func(t *testing.T) {
		places, err := Decode(strings.NewReader(`{"@graph": []}`))
		require.NoError(t, err)
		assert.Empty(t, places)
	})

	t.Run("no place", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"type": "FeatureCollection"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no places found")
	})

	t.Run("record without title is kept", func(t *testing.T) {
		places, err := Decode(strings.NewReader(`{"@graph": [{"id": "7"}]}`))
		require.NoError(t, err)
		require.Len(t, places, 1)

		_, err = places[0].Describe()
		var malformed *core.MalformedRecordError
		assert.ErrorAs(t, err, &malformed)
	})
}
