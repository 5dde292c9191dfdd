package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutor_connect/internal/controller/state"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

func (h *Handlers) handleSignUpStart(ctx context.Context, b Sender, chatID int64) {
	h.stateManager.SetState(chatID, state.StateSignUpEmail)
	h.sendMessage(ctx, b, chatID, "📝 Регистрация\n\nВведите email:\n\n(/cancel для отмены)", nil)
}

func (h *Handlers) handleSignInStart(ctx context.Context, b Sender, chatID int64) {
	h.stateManager.SetState(chatID, state.StateSignInEmail)
	h.sendMessage(ctx, b, chatID, "🔑 Вход\n\nВведите email:\n\n(/cancel для отмены)", nil)
}

// handleEmailStep общий шаг регистрации и входа
func (h *Handlers) handleEmailStep(ctx context.Context, b Sender, chatID int64, text string) {
	email := strings.TrimSpace(text)
	if !strings.Contains(email, "@") {
		h.sendError(ctx, b, chatID, "❌ Это не похоже на email. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(chatID, state.KeyEmail, email)
	if h.stateManager.GetState(chatID) == state.StateSignUpEmail {
		h.stateManager.SetState(chatID, state.StateSignUpPassword)
		h.sendMessage(ctx, b, chatID, "Придумайте пароль (не короче 6 символов):", nil)
		return
	}
	h.stateManager.SetState(chatID, state.StateSignInPassword)
	h.sendMessage(ctx, b, chatID, "Введите пароль:", nil)
}

func (h *Handlers) handleSignUpPassword(ctx context.Context, b Sender, chatID int64, password string) {
	email, _ := h.stateManager.GetString(chatID, state.KeyEmail)

	sess, err := h.authService.SignUp(ctx, email, password)
	if err != nil {
		h.logger.Warn("Sign up failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, ErrorMessage(err)+"\n\nПопробуйте снова: /signup")
		return
	}

	h.stateManager.ClearState(chatID)
	h.startSession(ctx, b, chatID, sess)
	h.sendMessage(ctx, b, chatID,
		"✅ Аккаунт создан!\n\nПредставьтесь, чтобы репетиторы знали, кто к ним записался: /setprofile", nil)
}

func (h *Handlers) handleSignInPassword(ctx context.Context, b Sender, chatID int64, password string) {
	email, _ := h.stateManager.GetString(chatID, state.KeyEmail)

	sess, err := h.authService.SignIn(ctx, email, password)
	if err != nil {
		h.logger.Warn("Sign in failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, ErrorMessage(err)+"\n\nПопробуйте снова: /signin")
		return
	}

	h.stateManager.ClearState(chatID)
	h.startSession(ctx, b, chatID, sess)
	h.sendMessage(ctx, b, chatID, "✅ Вы вошли как "+sess.Email+"\n\n/tutors - Найти репетитора\n/mybookings - Мои записи", nil)
}

// startSession привязывает сессию к чату и открывает экраны пользователя
func (h *Handlers) startSession(ctx context.Context, b Sender, chatID int64, sess *session.Session) {
	h.sessions.Bind(chatID, sess)
	h.clients.open(chatID, h.newClient(ctx, b, chatID, sess))

	h.logger.Info("Session started",
		zap.Int64("chat_id", chatID),
		zap.String("uid", sess.UID),
		zap.Int("active_sessions", h.sessions.Count()))
}

func (h *Handlers) handleSignOut(ctx context.Context, b Sender, chatID int64) {
	h.stateManager.ClearState(chatID)
	h.clients.remove(chatID)

	if !h.sessions.End(chatID) {
		h.sendMessage(ctx, b, chatID, "Вы и так не вошли. /signin", nil)
		return
	}

	h.logger.Info("Session ended", zap.Int64("chat_id", chatID))
	h.sendMessage(ctx, b, chatID, "👋 Вы вышли из аккаунта", nil)
}
