package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers all command handlers on the bot instance. Plain text
// and photo messages are routed through the default handler in main.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypePrefix, h.handleReset)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/timetable", bot.MatchTypePrefix, h.handleTimetable)
}
