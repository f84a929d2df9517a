package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pleiabot/pkg/log"
)

type MatrixConfig struct {
	Homeserver string `env:"PLEIA_MATRIX_HOMESERVER,required,notEmpty"`
	UserID     string `env:"PLEIA_MATRIX_USER,required,notEmpty"`
	Password   string `env:"PLEIA_MATRIX_PASSWORD,required,notEmpty"`
	ServerName string `env:"PLEIA_MATRIX_SERVER_NAME,required,notEmpty"`
	// Empty means anyone may ask or invite.
	AllowedUsers []string `env:"PLEIA_MATRIX_ALLOWED_USERS"`

	DataDir string
}

func NewMatrixConfig(ctx context.Context, runtimePath string) *MatrixConfig {
	c := &MatrixConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Matrix config")
	}
	c.DataDir = filepath.Join(runtimePath, "matrix")
	return c
}

func (c MatrixConfig) IsAllowed(userID string) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	for _, u := range c.AllowedUsers {
		if u == userID {
			return true
		}
	}
	return false
}
