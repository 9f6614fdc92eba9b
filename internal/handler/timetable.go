package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Nithin1682/voice-assistant/internal/schedule"
	tg "github.com/Nithin1682/voice-assistant/internal/telegram"
)

func (h *Handler) handleTimetable(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	rendered, err := h.schedule.Render(ctx, schedule.FormatMarkdown)
	if err != nil {
		slog.Error("render timetable", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Couldn't read the timetable.",
		})
		return
	}
	if rendered == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "The timetable is currently empty.",
		})
		return
	}

	tg.SendLongMessage(ctx, b, chatID, "```\n"+rendered+"\n```")
}
