// Package repository описывает удалённый каталог пользователей и репетиторов.
// Реализации: postgres (pgx), firestore (управляемая документная БД) и memory.
package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

// SubjectsMutation вычисляет новый список предметов и карту слотов по текущим.
// Ошибка из функции отменяет транзакцию, ничего не записывая
type SubjectsMutation func(subjects []string, slots map[string][]time.Time) ([]string, map[string][]time.Time, error)

// Directory удалённое хранилище записей пользователей
type Directory interface {
	// GetUser возвращает запись по uid или model.ErrNotFound
	GetUser(ctx context.Context, uid string) (*model.User, error)
	// ListTutors возвращает все записи с IsTutor = true
	ListTutors(ctx context.Context) ([]*model.User, error)

	// CreateAccount атомарно сохраняет учётные данные и начальную запись пользователя
	CreateAccount(ctx context.Context, account *model.Account, user *model.User) error
	// GetAccountByEmail возвращает учётные данные или model.ErrNotFound
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// UpdateProfile перезаписывает поля профиля
	UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) error

	// UpdateSubjects выполняет read-modify-write над списком предметов и картой
	// слотов в одной транзакции
	UpdateSubjects(ctx context.Context, uid string, fn SubjectsMutation) error
	// AddSlot добавляет время в availableSlots[subject] как во множество
	AddSlot(ctx context.Context, uid, subject string, t time.Time) error
	// RemoveSlot убирает время из availableSlots[subject]
	RemoveSlot(ctx context.Context, uid, subject string, t time.Time) error

	// CommitBooking применяет бронирование к обоим документам атомарно
	CommitBooking(ctx context.Context, w model.BookingWrite) error
}
