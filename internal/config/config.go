package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	OpenRouterKey string `env:"OPENROUTER_API_KEY,required"`
	Model         string `env:"MODEL" envDefault:"google/gemma-2-9b-it"`
	VisionModel   string `env:"VISION_MODEL" envDefault:"meta-llama/llama-4-scout"`
	Language      string `env:"LANGUAGE" envDefault:"English"`

	// Telegram front-end
	BotToken           string `env:"BOT_TOKEN"`
	DropPendingUpdates bool   `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Schedule backend: "file" (JSON + vision extraction) or "postgres"
	// (relational + interactive entry).
	ScheduleBackend string `env:"SCHEDULE_BACKEND" envDefault:"file"`
	TimetablePath   string `env:"TIMETABLE_PATH" envDefault:"timetable.json"`
	DatabaseURL     string `env:"DATABASE_URL"`

	// Voice front-end
	WakeWord  string `env:"WAKE_WORD" envDefault:"hey google"`
	STTModel  string `env:"STT_MODEL" envDefault:"whisper-1"`
	TTSModel  string `env:"TTS_MODEL" envDefault:"tts-1"`
	TTSVoice  string `env:"TTS_VOICE" envDefault:"nova"`
	SpeechKey string `env:"SPEECH_API_KEY"`
	SpeechURL string `env:"SPEECH_API_URL" envDefault:"https://api.openai.com/v1"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// UsesPostgres reports whether the relational schedule backend is selected.
func (c *Config) UsesPostgres() bool {
	return c.ScheduleBackend == "postgres"
}
