// Package handler wires Telegram updates into the conversation core. The
// bot is one front-end among several: every chat is its own thread, keyed
// by the Telegram chat ID.
package handler

import (
	"strconv"

	"github.com/go-telegram/bot"

	"github.com/Nithin1682/voice-assistant/internal/assistant"
	"github.com/Nithin1682/voice-assistant/internal/config"
	"github.com/Nithin1682/voice-assistant/internal/schedule"
)

// Handler holds all dependencies needed by command and message handlers.
type Handler struct {
	bot          *bot.Bot
	cfg          *config.Config
	orchestrator *assistant.Orchestrator
	schedule     schedule.Service

	// fileSchedule is set only for the file-backed schedule variant; it
	// lets photo messages feed the vision extraction save path directly.
	fileSchedule *schedule.FileStore
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot          *bot.Bot
	Cfg          *config.Config
	Orchestrator *assistant.Orchestrator
	Schedule     schedule.Service
	FileSchedule *schedule.FileStore
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:          deps.Bot,
		cfg:          deps.Cfg,
		orchestrator: deps.Orchestrator,
		schedule:     deps.Schedule,
		fileSchedule: deps.FileSchedule,
	}
}

// threadID maps a Telegram chat to its conversation thread.
func threadID(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}
