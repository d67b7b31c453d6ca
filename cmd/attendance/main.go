package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"nuclight.org/attendance/internal/bot"
	"nuclight.org/attendance/internal/config"
	"nuclight.org/attendance/internal/logger"
	"nuclight.org/attendance/internal/poll"
	"nuclight.org/attendance/internal/schedule"
	"nuclight.org/attendance/internal/storage"
)

func main() {
	dotenv := config.LoadDotEnv()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Fatalf("Failed to init sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	lg := logger.New(logger.Options{Level: slog.LevelInfo, Sentry: cfg.SentryDSN != ""})
	lg.Info("config loaded",
		"dotenv", dotenv,
		"storage", cfg.StorageBackend,
		"data_path", cfg.DataPath,
		"schedule", cfg.Schedule.String(),
		"retention", cfg.Retention,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{
		Backend:  cfg.StorageBackend,
		Path:     cfg.DataPath,
		RedisURL: cfg.RedisURL,
	}, lg)
	if err != nil {
		lg.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	snap, err := store.Load(ctx)
	if err != nil {
		lg.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	registry := poll.NewRegistry(cfg.SuperAdminID)
	if dropped := registry.Restore(snap); dropped > 0 {
		lg.Warn("dropped votes with unknown options", "count", dropped)
	}
	lg.Info("state loaded", "chats", len(snap.Chats))

	service := poll.NewService(registry, store, lg, poll.Settings{
		Retention:    cfg.Retention,
		EventWeekday: cfg.Schedule.Weekday,
		Now:          func() time.Time { return time.Now().In(cfg.Schedule.Location) },
	})

	b, err := bot.New(cfg.TelegramToken, service, lg, bot.Info{
		Schedule: cfg.Schedule,
		Backend:  cfg.StorageBackend,
	})
	if err != nil {
		lg.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	b.RegisterCommands()

	if err := b.PublishMissing(ctx); err != nil {
		lg.Warn("could not publish initial polls", "error", err)
	}

	scheduler := schedule.New(cfg.Schedule, cfg.CheckInterval, b.PublishAll, lg)
	go scheduler.Run(ctx)

	b.Start(ctx)
	lg.Info("bot stopped")
}
