package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/tutor_connect/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_connect/internal/controller/keyboard"
	"github.com/Freeeeeet/tutor_connect/internal/controller/state"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"go.uber.org/zap"
)

func (h *Handlers) handleProfile(ctx context.Context, b Sender, chatID int64) {
	sess, ok := h.requireSession(ctx, b, chatID)
	if !ok {
		return
	}

	user, err := h.userService.FetchUser(ctx, sess.UID)
	if err != nil {
		h.logger.Error("Failed to fetch profile", zap.String("uid", sess.UID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, chatID, renderProfile(user), nil)
}

func renderProfile(user *model.User) string {
	role := "ученик"
	if user.IsTutor {
		role = "репетитор"
	}

	text := fmt.Sprintf("👤 %s\n📧 %s\n🎓 Роль: %s\n💰 %s",
		user.Name, user.Email, role, formatting.FormatPricePerHour(user.PricePerHour))
	if len(user.Subjects) > 0 {
		text += "\n📚 " + strings.Join(user.Subjects, ", ")
	}
	if user.About != "" {
		text += "\n\n" + user.About
	}
	return text + "\n\nИзменить: /setprofile"
}

func (h *Handlers) handleSetProfileStart(ctx context.Context, b Sender, chatID int64) {
	if _, ok := h.requireSession(ctx, b, chatID); !ok {
		return
	}

	h.stateManager.SetState(chatID, state.StateProfileName)
	h.sendMessage(ctx, b, chatID, "✏️ Редактирование профиля\n\nКак вас зовут?\n\n(/cancel для отмены)", nil)
}

func (h *Handlers) handleProfileName(ctx context.Context, b Sender, chatID int64, text string) {
	name := strings.TrimSpace(text)
	if name == "" || utf8.RuneCountInString(name) > NameMaxLength {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Имя должно быть от 1 до %d символов. Попробуйте ещё раз:", NameMaxLength))
		return
	}

	h.stateManager.SetData(chatID, state.KeyName, name)
	h.stateManager.SetState(chatID, state.StateProfilePrice)
	h.sendMessage(ctx, b, chatID, "Цена за час в рублях (0, если вы не репетитор):", nil)
}

func (h *Handlers) handleProfilePrice(ctx context.Context, b Sender, chatID int64, text string) {
	price, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || price < 0 || price > MaxPrice {
		h.sendError(ctx, b, chatID, "❌ Введите целое число, например 1500:")
		return
	}

	h.stateManager.SetData(chatID, state.KeyPrice, price)
	h.stateManager.SetState(chatID, state.StateProfileAbout)
	h.sendMessage(ctx, b, chatID, "Расскажите о себе (или \"-\", чтобы оставить пустым):", nil)
}

func (h *Handlers) handleProfileAbout(ctx context.Context, b Sender, chatID int64, text string) {
	about := strings.TrimSpace(text)
	if about == "-" {
		about = ""
	}
	if utf8.RuneCountInString(about) > AboutMaxLength {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Не длиннее %d символов. Попробуйте ещё раз:", AboutMaxLength))
		return
	}

	h.stateManager.SetData(chatID, state.KeyAbout, about)
	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("✅ Да", CallbackProfileTutor+"yes"),
			keyboard.Button("❌ Нет", CallbackProfileTutor+"no"),
		).
		Build()
	h.sendMessage(ctx, b, chatID, "Вы преподаёте? Репетиторы видны в списке /tutors", kb)
}

// finishProfile сохраняет профиль по ответу на последний вопрос диалога
func (h *Handlers) finishProfile(ctx context.Context, b Sender, chatID int64, isTutor bool) {
	if h.stateManager.GetState(chatID) != state.StateProfileAbout {
		h.sendError(ctx, b, chatID, "❌ Диалог устарел. Начните заново: /setprofile")
		return
	}

	sess, ok := h.requireSession(ctx, b, chatID)
	if !ok {
		h.stateManager.ClearState(chatID)
		return
	}

	name, _ := h.stateManager.GetString(chatID, state.KeyName)
	price, _ := h.stateManager.GetInt(chatID, state.KeyPrice)
	about, _ := h.stateManager.GetString(chatID, state.KeyAbout)
	h.stateManager.ClearState(chatID)

	err := h.userService.UpdateProfile(ctx, sess, model.ProfileUpdate{
		Name:         name,
		PricePerHour: price,
		About:        about,
		IsTutor:      isTutor,
	})
	if err != nil {
		h.logger.Error("Failed to update profile", zap.String("uid", sess.UID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	text := "✅ Профиль сохранён"
	if isTutor {
		text += "\n\nДобавьте предметы и свободное время: /subjects"
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}
