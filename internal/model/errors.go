package model

import (
	"errors"
	"fmt"
)

// Ошибки, которые видят вызывающие сервисы. Проверяются через errors.Is
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrBackend            = errors.New("backend failure")
	ErrParse              = errors.New("malformed stored data")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotTutor           = errors.New("user is not a tutor")
)

// BackendError оборачивает ошибку драйвера хранилища в ErrBackend
func BackendError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackend, op, err)
}

// ParseError сообщает о битом поле в сохранённом документе
func ParseError(entity, field string) error {
	return fmt.Errorf("%w: %s.%s", ErrParse, entity, field)
}
