package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/pleiabot/internal/config"
	"github.com/sandevgo/pleiabot/internal/core"
	"github.com/sandevgo/pleiabot/internal/service/command"
	"github.com/sandevgo/pleiabot/internal/service/gazetteer"
	"github.com/sandevgo/pleiabot/internal/service/responder"
	"github.com/sandevgo/pleiabot/internal/storage/sqlite"
	"github.com/sandevgo/pleiabot/internal/transport/cli"
	"github.com/sandevgo/pleiabot/internal/transport/matrix"
	"github.com/sandevgo/pleiabot/internal/transport/poster"
	"github.com/sandevgo/pleiabot/internal/transport/telegram"
	"github.com/sandevgo/pleiabot/pkg/log"
	"github.com/sandevgo/pleiabot/pkg/srv"
)

type announcer interface {
	Announce(ctx context.Context, text string)
}

// App is the loaded gazetteer plus everything built around it.
type App struct {
	cfg        *config.AppConfig
	builder    *gazetteer.Builder
	responder  *responder.Responder
	mentions   core.MentionsRepository
	announcers []announcer
}

func NewApp(ctx context.Context) *App {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Gazetteer and brain
	builder := gazetteer.NewBuilder(appCfg)
	b, err := builder.Build(ctx)
	if err != nil {
		logger.Fatal().Err(err).Str("path", appCfg.GetGazetteerPath()).Msg("failed to load gazetteer, run 'pleia install' first")
	}

	return &App{
		cfg:       appCfg,
		builder:   builder,
		responder: responder.New(b, appCfg),
	}
}

func (a *App) Services(ctx context.Context, stop context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 3. Storage
	db, err := sqlite.NewDB(ctx, a.cfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup("database", db.Close))
	a.mentions = sqlite.NewMentionsRepo(db)

	// 4. Hot reload
	if a.cfg.IsGazetteerWatched() {
		services = append(services, gazetteer.NewWatcher(a.builder, a.responder))
	}

	// 5. Posting
	var opts []poster.Option
	if a.cfg.IsSupervised() {
		approver, err := poster.NewConsoleApprover()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open console for supervision")
		}
		services = append(services, approver)
		opts = append(opts, poster.WithApprover(approver))
	}
	post := poster.New(a.responder, a.mentions, a.cfg, opts...)
	commands := command.New(command.NewCommands(a.responder, a.mentions))

	// 6. Transports
	transports, err := a.initTransports(ctx, stop, post, commands)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Fatal().Msg("no transport enabled, set PLEIA_ENABLE_TELEGRAM, PLEIA_ENABLE_MATRIX or PLEIA_ENABLE_CLI")
	}
	services = append(services, transports...)

	return services
}

func (a *App) initTransports(
	ctx context.Context,
	stop context.CancelFunc,
	post *poster.Poster,
	commands *command.Router,
) ([]srv.Service, error) {
	var services []srv.Service

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, post, commands)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
		a.announcers = append(a.announcers, bot)
	}

	// Matrix
	if a.cfg.IsMatrixSelected() {
		mxCfg := config.NewMatrixConfig(ctx, a.cfg.GetRuntimePath())
		client, err := matrix.NewClient(mxCfg, post, commands)
		if err != nil {
			return nil, err
		}
		if err := client.Login(ctx); err != nil {
			return nil, err
		}
		services = append(services, client)
		a.announcers = append(a.announcers, client)
	}

	// Console
	if a.cfg.EnableCLI {
		rl, err := cli.NewReadLine(a.responder, commands, a.cfg.GetRuntimePath())
		if err != nil {
			return nil, err
		}
		services = append(services, srv.NewForeground(rl, stop))
	}

	return services, nil
}

// Announce tells every chat transport that the bot is up.
func (a *App) Announce(ctx context.Context) {
	logger := log.FromCtx(ctx)

	text := fmt.Sprintf("The bot is listening. It knows about %d places.", a.responder.PlaceCount())
	logger.Info().Msg(text)

	if a.mentions != nil {
		if stats, err := a.mentions.Stats(ctx); err == nil {
			logger.Info().
				Int("handled", stats.Handled).
				Int("replies", stats.Replies).
				Time("last_handled", stats.LastHandled).
				Msg("mention history")
		}
	}

	if a.cfg.IsSilent() {
		return
	}
	for _, an := range a.announcers {
		an.Announce(ctx, text)
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
