package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tg-control-bot/internal/bot"
	"tg-control-bot/internal/common/config"
	"tg-control-bot/internal/common/logger"
	apphttp "tg-control-bot/internal/http"
	"tg-control-bot/internal/platform/db"
	redisp "tg-control-bot/internal/platform/redis"
	"tg-control-bot/internal/platform/telegram"
	"tg-control-bot/internal/repository/file"
	"tg-control-bot/internal/repository/sqlite"
	"tg-control-bot/internal/service/backup"
	"tg-control-bot/internal/service/broadcast"
	"tg-control-bot/internal/service/dedup"
	"tg-control-bot/internal/service/settings"
	"tg-control-bot/internal/session"
)

// @title           Control Bot Admin API
// @version         1.0
// @description     Read-only admin API for the control bot Mini App.
// @BasePath        /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Service: "tg-control-bot",
		Debug:   cfg.Debug,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	conn, err := db.Open(ctx, cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info().Str("path", cfg.Storage.DBPath).Msg("SQLite store opened")

	users := sqlite.NewUserRepository(conn)
	logs := sqlite.NewLogRepository(conn)
	settingsSvc := settings.NewService(sqlite.NewSettingsRepository(conn))
	if err := settingsSvc.EnsureDefaults(ctx, cfg.Bot.Maintenance); err != nil {
		return err
	}

	accountsPath := cfg.Storage.AccountsFile
	if !filepath.IsAbs(accountsPath) {
		accountsPath = filepath.Join(cfg.Storage.DataDir, accountsPath)
	}
	accountStore, err := file.OpenAccountStore(accountsPath)
	if err != nil {
		return err
	}

	tg := telegram.NewClient(cfg.Bot.APIURL, cfg.Bot.Token)
	me, err := tg.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	log.Info().Int64("bot_id", me.ID).Str("username", me.Username).Msg("Bot identity resolved")

	dispatcher := bot.NewDispatcher(bot.Deps{
		Messenger:   tg,
		Users:       users,
		Logs:        logs,
		Sessions:    session.NewMemoryStore(),
		Accounts:    accountStore,
		Maintenance: settingsSvc,
		Broadcast:   broadcast.NewService(users, tg, logs, cfg.Broadcast.Interval),
		Backup:      backup.NewService(cfg.Storage.DataDir, users, logs, accountStore, tg),
	}, bot.Options{
		BotName:    cfg.Bot.Name,
		Username:   me.Username,
		ContactURL: cfg.Bot.ContactURL,
		AdminIDs:   cfg.Bot.AdminIDs,
	})

	deps := apphttp.Deps{
		Config:     cfg,
		Base:       ctx,
		Dispatcher: dispatcher,
		Dedup:      dedup.Nop{},
		Users:      users,
		Logs:       logs,
		Accounts:   accountStore,
		Checks:     []apphttp.Check{{Name: "sqlite", Ping: conn.PingContext}},
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisp.Open(ctx, redisp.Options{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
			IOTimeout:   cfg.Redis.IOTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis open: %w", err)
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected, update de-duplication enabled")

		deps.Dedup = dedup.NewRedisGuard(rdb, cfg.Redis.DedupTTL)
		deps.Cache = rdb
		deps.Checks = append(deps.Checks, apphttp.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	if cfg.Webhook.SkipSet {
		log.Warn().Msg("SKIP_SET_WEBHOOK set, not registering webhook")
	} else {
		if err := tg.SetWebhook(ctx, cfg.WebhookURL(), cfg.Webhook.Secret, []string{"message", "callback_query"}); err != nil {
			return fmt.Errorf("set webhook: %w", err)
		}
		log.Info().Str("host", cfg.Webhook.Host).Msg("Webhook registered")
	}

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     apphttp.NewRouter(deps),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: a broadcast is answered only after the last
		// recipient has been attempted.
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
