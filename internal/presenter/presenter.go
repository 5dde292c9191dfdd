// Package presenter связывает сервисы с отображением. Сервисы вызываются в
// отдельных горутинах, а состояние презентера меняется и отрисовывается
// только внутри задач Executor.
package presenter

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/session"
)

// Executor последовательный контекст, например dispatch.Queue
type Executor interface {
	Post(task func()) bool
}

// OverviewFetcher источник записей пользователя
type OverviewFetcher interface {
	FetchBookingOverview(ctx context.Context, userID string) (*model.BookingOverview, error)
}

// TutorFetcher источник записи репетитора
type TutorFetcher interface {
	FetchTutor(ctx context.Context, uid string) (*model.User, error)
}

// SlotBooker выполняет бронирование
type SlotBooker interface {
	BookSlot(ctx context.Context, sess *session.Session, tutorID, tutorName, subject string, t time.Time) error
}

// SlotEditor операции над предметами и слотами
type SlotEditor interface {
	FetchSlots(ctx context.Context, tutorID string) ([]model.SubjectSlotGroup, error)
	AddSubject(ctx context.Context, sess *session.Session, name string) error
	DeleteSubject(ctx context.Context, sess *session.Session, name string) error
	AddSlot(ctx context.Context, sess *session.Session, subject string, t time.Time) error
	DeleteSlot(ctx context.Context, sess *session.Session, subject string, t time.Time) error
}
