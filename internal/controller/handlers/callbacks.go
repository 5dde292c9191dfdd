package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/presenter"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery маршрутизирует нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	h.routeCallback(ctx, b, update.CallbackQuery)
}

func (h *Handlers) routeCallback(ctx context.Context, b Sender, query *models.CallbackQuery) {
	chatID := query.From.ID
	if msg := query.Message.Message; msg != nil {
		chatID = msg.Chat.ID
	}
	data := query.Data

	h.logger.Debug("Callback query",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))

	switch {
	case data == CallbackNoop:
		h.answerCallback(ctx, b, query.ID, "", false)
	case strings.HasPrefix(data, CallbackTutor):
		h.answerCallback(ctx, b, query.ID, "", false)
		h.handleTutorCallback(ctx, b, chatID, strings.TrimPrefix(data, CallbackTutor))
	case strings.HasPrefix(data, CallbackBook):
		h.handleBookCallback(ctx, b, chatID, query.ID, strings.TrimPrefix(data, CallbackBook))
	case strings.HasPrefix(data, CallbackMode):
		h.answerCallback(ctx, b, query.ID, "", false)
		h.handleModeCallback(ctx, b, chatID, strings.TrimPrefix(data, CallbackMode))
	case strings.HasPrefix(data, CallbackProfileTutor):
		h.answerCallback(ctx, b, query.ID, "", false)
		h.finishProfile(ctx, b, chatID, strings.TrimPrefix(data, CallbackProfileTutor) == "yes")
	default:
		h.logger.Warn("Unknown callback data", zap.String("data", data))
		h.answerCallback(ctx, b, query.ID, "❌ Неизвестная команда", true)
	}
}

func (h *Handlers) handleTutorCallback(ctx context.Context, b Sender, chatID int64, tutorID string) {
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	c.tutor.Load(ctx, tutorID)
}

// handleBookCallback разбирает "<карточка>:<индекс предмета>:<unix>" и бронирует слот
func (h *Handlers) handleBookCallback(ctx context.Context, b Sender, chatID int64, queryID, payload string) {
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		h.answerCallback(ctx, b, queryID, "", false)
		return
	}

	tutorID, subject, t, ok := parseBookPayload(c.tutorView, payload)
	if !ok {
		h.answerCallback(ctx, b, queryID, "❌ Карточка устарела. Откройте репетитора заново", true)
		return
	}

	h.answerCallback(ctx, b, queryID, "⏳ Записываю...", false)
	c.tutor.BookSlot(ctx, tutorID, subject, t)
}

func parseBookPayload(v *tutorView, payload string) (string, string, time.Time, bool) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return "", "", time.Time{}, false
	}
	card, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", "", time.Time{}, false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", time.Time{}, false
	}
	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", "", time.Time{}, false
	}
	tutorID, subject, ok := v.lookup(card, index)
	if !ok {
		return "", "", time.Time{}, false
	}
	return tutorID, subject, time.Unix(unix, 0).UTC(), true
}

func (h *Handlers) handleModeCallback(ctx context.Context, b Sender, chatID int64, mode string) {
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	if mode == modeTutor {
		c.bookings.SetMode(presenter.ModeTutor)
		return
	}
	c.bookings.SetMode(presenter.ModeStudent)
}
