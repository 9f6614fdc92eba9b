package main

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	voiceassistant "github.com/Nithin1682/voice-assistant"
	"github.com/Nithin1682/voice-assistant/internal/assistant"
	"github.com/Nithin1682/voice-assistant/internal/clipboard"
	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/repository"
	"github.com/Nithin1682/voice-assistant/internal/schedule"
	"github.com/Nithin1682/voice-assistant/internal/service"
	"github.com/Nithin1682/voice-assistant/internal/session"
)

func main() {
	// Logs go to stderr so they don't interleave with the chat.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.Model)

	scheduleService, cleanup, err := buildSchedule(ctx, cfg, gateway, logger)
	if err != nil {
		slog.Error("failed to set up schedule backend", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	orchestrator := assistant.New(assistant.Deps{
		Store:     session.NewStore(cfg.Language, logger),
		Gateway:   gateway,
		Schedule:  scheduleService,
		Clipboard: clipboard.NewSystem(logger),
		Logger:    logger,
	})

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("Enter thread ID (blank for a new one): ")
	if !scanner.Scan() {
		return
	}
	thread := strings.TrimSpace(scanner.Text())
	if thread == "" {
		thread = uuid.NewString()
	}

	orchestrator.Bootstrap(thread)
	fmt.Printf("Starting chat session: %s (type 'exit' to quit)\n\n", thread)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			break
		}

		reply, err := orchestrator.HandleTurn(ctx, thread, input)
		if err != nil {
			fmt.Printf("Assistant: ❌ Something went wrong: %v\n\n", err)
			continue
		}
		fmt.Printf("Assistant: %s\n\n", reply)
	}
}

// buildSchedule constructs the configured schedule backend. The console
// front-end gets the interactive huh picker and entry form.
func buildSchedule(ctx context.Context, cfg *config.Config, gateway *service.OpenRouterService, logger *slog.Logger) (schedule.Service, func(), error) {
	if !cfg.UsesPostgres() {
		store := schedule.NewFileStore(cfg.TimetablePath, schedule.NewHuhImagePicker(), gateway, cfg.VisionModel, logger)
		return store, func() {}, nil
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	migrationsFS, err := fs.Sub(voiceassistant.MigrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return schedule.NewPostgresStore(pool, schedule.NewHuhEntryForm(), logger), pool.Close, nil
}
