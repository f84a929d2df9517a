package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pleiabot/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"PLEIA_TELEGRAM_TOKEN,required,notEmpty"`
	// Empty means anyone may ask.
	AllowedUsers []int64 `env:"PLEIA_TELEGRAM_ALLOWED_USERS"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) IsAllowed(userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, id := range c.AllowedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
