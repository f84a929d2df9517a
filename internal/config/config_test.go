package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLEIA_RUNTIME_PATH", dir)

	c := NewAppConfig(context.Background())

	assert.Equal(t, dir, c.GetRuntimePath())
	assert.Equal(t, filepath.Join(dir, GazetteerFileName), c.GetGazetteerPath())
	assert.Equal(t, filepath.Join(dir, "vocabulary.yaml"), c.GetVocabularyPath())
	assert.Equal(t, filepath.Join(dir, "pleiabot.db"), c.GetDatabasePath())
	assert.Equal(t, 488, c.GetReplyBudget())
	assert.Equal(t, 5, c.GetMaxAnswers())
	assert.Equal(t, 10, c.GetLatestLimit())
	assert.Zero(t, c.GetRandomSeed())
	assert.True(t, c.IsGazetteerWatched())
	assert.False(t, c.IsSilent())
	assert.False(t, c.IsSupervised())

	lo, hi := c.GetPostInterval()
	assert.Equal(t, 910*time.Millisecond, lo)
	assert.Equal(t, 7700*time.Millisecond, hi)
}

func TestNewAppConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLEIA_RUNTIME_PATH", dir)
	t.Setenv("PLEIA_GAZETTEER_PATH", "/data/places.json")
	t.Setenv("PLEIA_VOCABULARY_PATH", "/data/words.yaml")
	t.Setenv("PLEIA_REPLY_BUDGET", "300")
	t.Setenv("PLEIA_POST_MIN_INTERVAL", "2s")
	t.Setenv("PLEIA_POST_MAX_INTERVAL", "1s")
	t.Setenv("PLEIA_SUPERVISED", "true")
	t.Setenv("PLEIA_ENABLE_MATRIX", "true")

	c := NewAppConfig(context.Background())

	assert.Equal(t, "/data/places.json", c.GetGazetteerPath())
	assert.Equal(t, "/data/words.yaml", c.GetVocabularyPath())
	assert.Equal(t, 300, c.GetReplyBudget())
	assert.True(t, c.IsSupervised())
	assert.True(t, c.IsMatrixSelected())
	assert.False(t, c.IsTelegramSelected())

	lo, hi := c.GetPostInterval()
	assert.Equal(t, 2*time.Second, lo)
	assert.Equal(t, lo, hi, "max interval is raised to the minimum")
}

func TestGetRuntimePath(t *testing.T) {
	t.Setenv("PLEIA_RUNTIME_PATH", "/srv/pleia")
	assert.Equal(t, "/srv/pleia", GetRuntimePath())

	t.Setenv("PLEIA_RUNTIME_PATH", "")
	path := GetRuntimePath()
	require.True(t, filepath.IsAbs(path))
	assert.Equal(t, ".pleiabot", filepath.Base(path))
}

func TestIsAllowed(t *testing.T) {
	open := TelegramConfig{}
	assert.True(t, open.IsAllowed(42))

	tg := TelegramConfig{AllowedUsers: []int64{1, 2}}
	assert.True(t, tg.IsAllowed(2))
	assert.False(t, tg.IsAllowed(3))

	mx := MatrixConfig{AllowedUsers: []string{"@alice:example.org"}}
	assert.True(t, mx.IsAllowed("@alice:example.org"))
	assert.False(t, mx.IsAllowed("@mallory:example.org"))
}

func TestNewTelegramConfig(t *testing.T) {
	t.Setenv("PLEIA_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("PLEIA_TELEGRAM_ALLOWED_USERS", "10,20")

	c := NewTelegramConfig(context.Background())
	assert.Equal(t, "123:abc", c.Token)
	assert.Equal(t, []int64{10, 20}, c.AllowedUsers)
}

func TestNewMatrixConfig(t *testing.T) {
	t.Setenv("PLEIA_MATRIX_HOMESERVER", "https://matrix.example.org")
	t.Setenv("PLEIA_MATRIX_USER", "pleiabot")
	t.Setenv("PLEIA_MATRIX_PASSWORD", "secret")
	t.Setenv("PLEIA_MATRIX_SERVER_NAME", "example.org")

	c := NewMatrixConfig(context.Background(), "/srv/pleia")
	assert.Equal(t, "pleiabot", c.UserID)
	assert.Equal(t, filepath.Join("/srv/pleia", "matrix"), c.DataDir)
	assert.Empty(t, c.AllowedUsers)
}

func TestIsDebug(t *testing.T) {
	t.Setenv("PLEIA_DEBUG", "1")
	assert.True(t, IsDebug())
	t.Setenv("PLEIA_DEBUG", "")
	assert.False(t, IsDebug())
}
