package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Nithin1682/voice-assistant/internal/assistant"
	"github.com/Nithin1682/voice-assistant/internal/clipboard"
	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/schedule"
	"github.com/Nithin1682/voice-assistant/internal/service"
	"github.com/Nithin1682/voice-assistant/internal/session"
	"github.com/Nithin1682/voice-assistant/internal/speech"
	"github.com/Nithin1682/voice-assistant/internal/voice"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.SpeechKey == "" {
		slog.Error("SPEECH_API_KEY is required for the voice front-end")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.Model)

	// Voice sessions run hands-free, so there is no terminal picker; the
	// file backend still serves saved timetables for reading.
	scheduleService := schedule.NewFileStore(cfg.TimetablePath, nil, gateway, cfg.VisionModel, logger)

	orchestrator := assistant.New(assistant.Deps{
		Store:     session.NewStore(cfg.Language, logger),
		Gateway:   gateway,
		Schedule:  scheduleService,
		Clipboard: clipboard.NewSystem(logger),
		Logger:    logger,
	})

	mic := speech.MicPipeline{
		Recorder:    speech.ALSARecorder{},
		Transcriber: speech.NewOpenAITranscriber(cfg.SpeechKey, cfg.SpeechURL, cfg.STTModel),
	}
	speaker := speech.VoicePipeline{
		Synthesizer: speech.NewOpenAISynthesizer(cfg.SpeechKey, cfg.SpeechURL, cfg.TTSModel, cfg.TTSVoice),
		Player:      speech.ALSAPlayer{},
	}

	listener := voice.NewListener(mic, speaker, orchestrator, voice.Options{
		WakeWord: cfg.WakeWord,
		Logger:   logger,
	})

	threadID := "voice:" + uuid.NewString()
	if err := listener.Run(ctx, threadID); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("voice listener stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("voice listener stopped gracefully")
}
