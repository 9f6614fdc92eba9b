package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Nithin1682/voice-assistant/internal/config"
	tg "github.com/Nithin1682/voice-assistant/internal/telegram"
)

// HandleText processes a plain text message as one conversation turn.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	if msg.Photo != nil {
		h.HandlePhoto(ctx, b, update)
		return
	}

	chatID := msg.Chat.ID

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	reply, err := h.orchestrator.HandleTurn(reqCtx, threadID(chatID), msg.Text)
	if err != nil {
		slog.Error("turn failed", "error", err, "chat_id", chatID)
		errText := "❌ Something went wrong with that request."
		if reqCtx.Err() != nil {
			errText = "⏳ The request timed out. Please try again."
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   errText,
		})
		return
	}

	tg.SendLongMessage(ctx, b, chatID, reply)
}

// HandlePhoto feeds a photo message into the timetable save flow when the
// file-backed schedule variant is active.
func (h *Handler) HandlePhoto(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || len(update.Message.Photo) == 0 {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	if h.fileSchedule == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Timetable photos aren't supported with this schedule backend. Use the interactive entry instead.",
		})
		return
	}

	// Highest resolution variant is last.
	photo := msg.Photo[len(msg.Photo)-1]
	data, mime, err := tg.DownloadFile(ctx, b, photo.FileID)
	if err != nil {
		slog.Error("download timetable photo", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Couldn't download that photo. Please try again.",
		})
		return
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	res, err := h.fileSchedule.SaveFromImage(reqCtx, data, mime)
	if err != nil {
		slog.Error("save timetable from photo", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Couldn't extract a timetable from that photo.",
		})
		return
	}

	tg.SendLongMessage(ctx, b, chatID, res.Detail)
}
