package log

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// MigrationLogger adapts zerolog to goose's Logger interface. Migration
// chatter goes out at debug level; only fatal errors are loud.
type MigrationLogger struct {
	logger *zerolog.Logger
}

func (g *MigrationLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Fatal().Msgf(strings.TrimSpace(format), v...)
}

func (g *MigrationLogger) Printf(format string, v ...interface{}) {
	g.logger.Debug().Str("component", "migrations").Msgf(strings.TrimSpace(format), v...)
}

func NewMigrationLoggerFromCtx(ctx context.Context) *MigrationLogger {
	return &MigrationLogger{
		logger: FromCtx(ctx),
	}
}
