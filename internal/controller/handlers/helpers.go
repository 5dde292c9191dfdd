package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutor_connect/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender методы Bot API, которыми пользуются обработчики. *bot.Bot удовлетворяет интерфейсу
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// requireSession возвращает сессию чата или сообщает, что нужно войти
func (h *Handlers) requireSession(ctx context.Context, b Sender, chatID int64) (*session.Session, bool) {
	sess := h.sessions.Current(chatID)
	if err := session.Require(sess); err != nil {
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return nil, false
	}
	return sess, true
}

// requireClient возвращает презентеры чата вошедшего пользователя
func (h *Handlers) requireClient(ctx context.Context, b Sender, chatID int64) (*client, bool) {
	if _, ok := h.requireSession(ctx, b, chatID); !ok {
		return nil, false
	}
	c := h.clients.get(chatID)
	if c == nil {
		h.sendError(ctx, b, chatID, "❌ Сессия устарела. Войдите снова: /signin")
		return nil, false
	}
	return c, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b Sender, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b Sender, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// answerCallback отвечает на callback query, alert показывает всплывающее окно
func (h *Handlers) answerCallback(ctx context.Context, b Sender, callbackID, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.Error(err))
	}
}

// deleteMessage удаляет сообщение пользователя, например с паролем
func (h *Handlers) deleteMessage(ctx context.Context, b Sender, chatID int64, messageID int) {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		h.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

// parseCommand разбирает "/cmd@bot аргументы" на команду и аргументы
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	command, args, _ := strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.TrimSpace(args)
}

// splitSlotArgs разбирает "предмет; время"
func splitSlotArgs(args string) (string, string, bool) {
	subject, when, ok := strings.Cut(args, ";")
	subject, when = strings.TrimSpace(subject), strings.TrimSpace(when)
	if !ok || subject == "" || when == "" {
		return "", "", false
	}
	return subject, when, true
}
