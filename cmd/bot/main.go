package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	voiceassistant "github.com/Nithin1682/voice-assistant"
	"github.com/Nithin1682/voice-assistant/internal/assistant"
	"github.com/Nithin1682/voice-assistant/internal/clipboard"
	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/handler"
	"github.com/Nithin1682/voice-assistant/internal/middleware"
	"github.com/Nithin1682/voice-assistant/internal/repository"
	"github.com/Nithin1682/voice-assistant/internal/schedule"
	"github.com/Nithin1682/voice-assistant/internal/service"
	"github.com/Nithin1682/voice-assistant/internal/session"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.BotToken == "" {
		slog.Error("BOT_TOKEN is required for the Telegram front-end")
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.Model)

	// Build the schedule backend
	var scheduleService schedule.Service
	var fileSchedule *schedule.FileStore
	if cfg.UsesPostgres() {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(voiceassistant.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		scheduleService = schedule.NewPostgresStore(pool, schedule.NewHuhEntryForm(), logger)
	} else {
		// No terminal picker behind a bot; timetable photos arrive as
		// Telegram photo messages instead.
		fileSchedule = schedule.NewFileStore(cfg.TimetablePath, nil, gateway, cfg.VisionModel, logger)
		scheduleService = fileSchedule
	}

	store := session.NewStore(cfg.Language, logger)
	orchestrator := assistant.New(assistant.Deps{
		Store:     store,
		Gateway:   gateway,
		Schedule:  scheduleService,
		Clipboard: clipboard.NewSystem(logger),
		Logger:    logger,
	})

	// Handler pointer for use in the default handler closure
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			if len(update.Message.Photo) > 0 {
				h.HandlePhoto(ctx, b, update)
				return
			}
			if update.Message.Text != "" {
				h.HandleText(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	h = handler.New(handler.Deps{
		Bot:          b,
		Cfg:          cfg,
		Orchestrator: orchestrator,
		Schedule:     scheduleService,
		FileSchedule: fileSchedule,
	})
	h.Register()

	slog.Info("starting bot", "username", me.Username, "id", me.ID, "schedule_backend", cfg.ScheduleBackend)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
