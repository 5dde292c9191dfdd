package handlers

import (
	"context"

	"github.com/Freeeeeet/tutor_connect/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Аккаунт:\n" +
	"/signup - Регистрация по email\n" +
	"/signin - Вход\n" +
	"/signout - Выход\n" +
	"/profile - Мой профиль\n" +
	"/setprofile - Изменить профиль\n\n" +
	"Для учеников:\n" +
	"/tutors - Найти репетитора и записаться\n" +
	"/mybookings - Мои записи\n" +
	"/week - Расписание недели картинкой (/week next - следующая)\n\n" +
	"Для репетиторов:\n" +
	"/subjects - Мои предметы и слоты\n" +
	"/addsubject Название - Добавить предмет\n" +
	"/delsubject Название - Удалить предмет со всеми слотами\n" +
	"/addslot Предмет; 01.07.2025 10:00 - Добавить слот\n" +
	"/delslot Предмет; 01.07.2025 10:00 - Удалить слот\n\n" +
	"/cancel - Отменить текущий диалог"

// HandleTextMessage единая точка входа для текстовых сообщений: команды
// и шаги диалогов
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	h.route(ctx, b, update.Message)
}

func (h *Handlers) route(ctx context.Context, b Sender, msg *models.Message) {
	chatID := msg.Chat.ID
	command, args := parseCommand(msg.Text)

	h.logger.Debug("Text message",
		zap.Int64("chat_id", chatID),
		zap.String("command", command),
		zap.String("state", string(h.stateManager.GetState(chatID))))

	switch command {
	case "":
		h.handleDialogStep(ctx, b, msg)
	case "/start":
		h.handleStart(ctx, b, chatID)
	case "/help":
		h.sendMessage(ctx, b, chatID, helpText, nil)
	case "/cancel":
		h.handleCancel(ctx, b, chatID)
	case "/signup":
		h.handleSignUpStart(ctx, b, chatID)
	case "/signin":
		h.handleSignInStart(ctx, b, chatID)
	case "/signout":
		h.handleSignOut(ctx, b, chatID)
	case "/profile":
		h.handleProfile(ctx, b, chatID)
	case "/setprofile":
		h.handleSetProfileStart(ctx, b, chatID)
	case "/tutors":
		h.handleTutors(ctx, b, chatID)
	case "/mybookings":
		h.handleMyBookings(ctx, b, chatID)
	case "/week":
		h.handleWeek(ctx, b, chatID, args)
	case "/subjects":
		h.handleSubjects(ctx, b, chatID)
	case "/addsubject":
		h.handleAddSubject(ctx, b, chatID, args)
	case "/delsubject":
		h.handleDeleteSubject(ctx, b, chatID, args)
	case "/addslot":
		h.handleSlotChange(ctx, b, chatID, args, true)
	case "/delslot":
		h.handleSlotChange(ctx, b, chatID, args, false)
	default:
		h.sendMessage(ctx, b, chatID, "❓ Неизвестная команда. Справка: /help", nil)
	}
}

func (h *Handlers) handleStart(ctx context.Context, b Sender, chatID int64) {
	text := "👋 Привет!\n\n" +
		"TutorConnect помогает найти репетитора и записаться на свободное время.\n\n"

	if sess := h.sessions.Current(chatID); sess != nil {
		text += "Вы вошли как " + sess.Email + "\n\n" +
			"/tutors - Найти репетитора\n" +
			"/mybookings - Мои записи\n" +
			"/help - Все команды"
	} else {
		text += "/signup - Регистрация\n" +
			"/signin - Вход\n" +
			"/help - Все команды"
	}

	h.sendMessage(ctx, b, chatID, text, nil)
}

func (h *Handlers) handleCancel(ctx context.Context, b Sender, chatID int64) {
	if h.stateManager.GetState(chatID) == state.StateNone {
		h.sendMessage(ctx, b, chatID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}

// handleDialogStep передаёт сообщение текущему шагу диалога
func (h *Handlers) handleDialogStep(ctx context.Context, b Sender, msg *models.Message) {
	chatID := msg.Chat.ID

	switch h.stateManager.GetState(chatID) {
	case state.StateSignUpEmail, state.StateSignInEmail:
		h.handleEmailStep(ctx, b, chatID, msg.Text)
	case state.StateSignUpPassword:
		h.deleteMessage(ctx, b, chatID, msg.ID)
		h.handleSignUpPassword(ctx, b, chatID, msg.Text)
	case state.StateSignInPassword:
		h.deleteMessage(ctx, b, chatID, msg.ID)
		h.handleSignInPassword(ctx, b, chatID, msg.Text)
	case state.StateProfileName:
		h.handleProfileName(ctx, b, chatID, msg.Text)
	case state.StateProfilePrice:
		h.handleProfilePrice(ctx, b, chatID, msg.Text)
	case state.StateProfileAbout:
		h.handleProfileAbout(ctx, b, chatID, msg.Text)
	default:
		h.sendMessage(ctx, b, chatID, "Используйте /help для просмотра доступных команд.", nil)
	}
}
