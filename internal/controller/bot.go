package controller

import (
	"context"

	"github.com/Freeeeeet/tutor_connect/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, h *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: h,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует обработчики и меню команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды и шаги диалогов разбираются в одном обработчике
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "signup", Description: "📝 Регистрация"},
		{Command: "signin", Description: "🔑 Вход"},
		{Command: "tutors", Description: "👨‍🏫 Найти репетитора"},
		{Command: "mybookings", Description: "📅 Мои записи"},
		{Command: "week", Description: "🗓 Расписание недели"},
		{Command: "subjects", Description: "📚 Мои предметы (репетитор)"},
		{Command: "profile", Description: "👤 Мой профиль"},
		{Command: "signout", Description: "🚪 Выход"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx.
// Очереди чатов останавливает владелец обработчиков через Handlers.Close
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
