package handlers

import (
	"errors"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		return "🔒 Сначала войдите: /signin или /signup"
	case errors.Is(err, model.ErrInvalidCredentials):
		return "❌ Неверный email или пароль"
	case errors.Is(err, model.ErrEmailTaken):
		return "❌ Этот email уже зарегистрирован. Войдите через /signin"
	case errors.Is(err, model.ErrNotTutor):
		return "❌ Этот пользователь не репетитор"
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено. Возможно, данные уже изменились"
	case errors.Is(err, model.ErrInvalidInput):
		return "❌ Неверные данные. Проверьте ввод"
	case errors.Is(err, model.ErrParse):
		return "❌ Данные в базе повреждены. Попробуйте позже"
	case errors.Is(err, model.ErrBackend):
		return "📡 Сервер недоступен. Попробуйте позже"
	default:
		return "❌ Произошла ошибка"
	}
}
