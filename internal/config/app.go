package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pleiabot/pkg/log"
)

type AppConfig struct {
	RuntimePath    string `env:"PLEIA_RUNTIME_PATH"`
	GazetteerPath  string `env:"PLEIA_GAZETTEER_PATH"`
	VocabularyPath string `env:"PLEIA_VOCABULARY_PATH"`

	// Transport Flags
	EnableTelegram bool `env:"PLEIA_ENABLE_TELEGRAM" envDefault:"false"`
	EnableMatrix   bool `env:"PLEIA_ENABLE_MATRIX" envDefault:"false"`
	EnableCLI      bool `env:"PLEIA_ENABLE_CLI" envDefault:"false"`

	// Replies
	ReplyBudget int   `env:"PLEIA_REPLY_BUDGET" envDefault:"488"`
	MaxAnswers  int   `env:"PLEIA_MAX_ANSWERS" envDefault:"5"`
	LatestLimit int   `env:"PLEIA_LATEST_LIMIT" envDefault:"10"`
	RandomSeed  int64 `env:"PLEIA_RANDOM_SEED" envDefault:"0"`

	// Posting: 300 requests in 5 minutes at most
	PostMinInterval time.Duration `env:"PLEIA_POST_MIN_INTERVAL" envDefault:"910ms"`
	PostMaxInterval time.Duration `env:"PLEIA_POST_MAX_INTERVAL" envDefault:"7.7s"`
	Silent          bool          `env:"PLEIA_SILENT" envDefault:"false"`
	Supervised      bool          `env:"PLEIA_SUPERVISED" envDefault:"false"`

	WatchGazetteer bool `env:"PLEIA_WATCH_GAZETTEER" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.applyDefaults()
	return c
}

func (c *AppConfig) applyDefaults() {
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	if c.GazetteerPath == "" {
		c.GazetteerPath = filepath.Join(c.RuntimePath, GazetteerFileName)
	}
	if c.PostMaxInterval < c.PostMinInterval {
		c.PostMaxInterval = c.PostMinInterval
	}
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "pleiabot.db")
}

func (c AppConfig) GetGazetteerPath() string {
	return c.GazetteerPath
}

// GetVocabularyPath returns the configured vocabulary file or the default
// location inside the runtime directory.
func (c AppConfig) GetVocabularyPath() string {
	if c.VocabularyPath != "" {
		return c.VocabularyPath
	}
	return filepath.Join(c.RuntimePath, "vocabulary.yaml")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsMatrixSelected() bool {
	return c.EnableMatrix
}

func (c AppConfig) GetReplyBudget() int {
	return c.ReplyBudget
}

func (c AppConfig) GetMaxAnswers() int {
	return c.MaxAnswers
}

func (c AppConfig) GetPostInterval() (time.Duration, time.Duration) {
	return c.PostMinInterval, c.PostMaxInterval
}

func (c AppConfig) IsSilent() bool {
	return c.Silent
}

func (c AppConfig) IsSupervised() bool {
	return c.Supervised
}

func (c AppConfig) GetLatestLimit() int {
	return c.LatestLimit
}

func (c AppConfig) GetRandomSeed() int64 {
	return c.RandomSeed
}

func (c AppConfig) IsGazetteerWatched() bool {
	return c.WatchGazetteer
}
