package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	h.orchestrator.Bootstrap(threadID(chatID))

	welcomeText := "👋 Hi! I'm your timetable assistant.\n\n" +
		"📋 *Commands:*\n" +
		"/timetable - Show your saved timetable\n" +
		"/reset - Forget this conversation\n\n" +
		"Send a timetable photo to save it, ask me to delete it, " +
		"or just ask anything. I know your schedule and the current time."

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      welcomeText,
		ParseMode: models.ParseModeMarkdown,
	})
}
