package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/controller/weekimage"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleWeek отправляет картинку недели: свободные слоты и записи с обеих сторон
func (h *Handlers) handleWeek(ctx context.Context, b Sender, chatID int64, args string) {
	sess, ok := h.requireSession(ctx, b, chatID)
	if !ok {
		return
	}

	user, err := h.userService.FetchUser(ctx, sess.UID)
	if err != nil {
		h.logger.Error("Failed to fetch user for week image", zap.String("uid", sess.UID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	now := time.Now()
	week := weekimage.WeekOf(now, h.location)
	if args == "next" {
		week = weekimage.WeekOf(week.End, h.location)
	}

	data, err := weekimage.Render(week, weekSlots(user), now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.String("uid", sess.UID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось нарисовать расписание")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "week.png",
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("🗓 Неделя %s - %s",
			week.Start.Format("02.01"), week.End.AddDate(0, 0, -1).Format("02.01")),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// weekSlots собирает слоты пользователя для картинки недели
func weekSlots(user *model.User) []weekimage.Slot {
	var slots []weekimage.Slot
	for _, group := range model.GroupSlots(user.AvailableSlots) {
		for _, t := range group.Slots {
			slots = append(slots, weekimage.Slot{Start: t, Subject: group.Name})
		}
	}
	for _, b := range user.SelectedSlots {
		slots = append(slots, weekimage.Slot{Start: b.Time, Subject: b.Subject, Booked: true, Label: b.StudentEmail})
	}
	for _, b := range user.UserBookings {
		slots = append(slots, weekimage.Slot{Start: b.Time, Subject: b.Subject, Booked: true, Label: b.TutorName})
	}
	return slots
}
