package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_connect/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_connect/internal/controller/keyboard"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleTutors список репетиторов, кроме самого пользователя
func (h *Handlers) handleTutors(ctx context.Context, b Sender, chatID int64) {
	sess, ok := h.requireSession(ctx, b, chatID)
	if !ok {
		return
	}

	tutors, err := h.userService.FetchTutors(ctx, sess)
	if err != nil {
		h.logger.Error("Failed to fetch tutors", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	text, kb := renderTutorList(tutors)
	h.sendMessage(ctx, b, chatID, text, kb)
}

func renderTutorList(tutors []*model.User) (string, *models.InlineKeyboardMarkup) {
	if len(tutors) == 0 {
		return "😔 Пока нет ни одного репетитора", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👨‍🏫 Найдено %d %s\n\nВыберите репетитора:", len(tutors), formatting.PluralizeTutors(len(tutors))))

	kb := keyboard.NewBuilder()
	for _, t := range tutors {
		label := fmt.Sprintf("%s · %s", t.Name, formatting.FormatPricePerHour(t.PricePerHour))
		if len(t.Subjects) > 0 {
			label += " · " + strings.Join(t.Subjects, ", ")
		}
		kb.Row(keyboard.Button(label, CallbackTutor+t.UID))
	}

	return sb.String(), kb.Build()
}

// handleMyBookings открывает экран записей. При недоступном каталоге
// показывается сохранённый снимок
func (h *Handlers) handleMyBookings(ctx context.Context, b Sender, chatID int64) {
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	c.bookings.ViewDidLoad(ctx)
}
