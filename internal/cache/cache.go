// Package cache описывает локальный кэш записей на занятия. Кэш читается
// только когда каталог недоступен, и полностью перезаписывается после
// каждого удачного чтения из каталога.
package cache

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

// Snapshot последние удачно полученные записи пользователя
type Snapshot struct {
	IsTutor         bool
	StudentBookings []model.StudentBooking
	TutorBookings   []model.TutorBooking
	SavedAt         time.Time
}

// Store хранилище снимков. Снимки разделены по владельцу (uid)
type Store interface {
	// Save удаляет прежние строки владельца и записывает новые
	Save(ctx context.Context, owner string, snapshot Snapshot) error
	// Load возвращает nil, nil, если снимка нет. Строки без обязательных
	// полей пропускаются
	Load(ctx context.Context, owner string) (*Snapshot, error)
	Close() error
}

// FilterStudent оставляет только полностью заполненные записи
func FilterStudent(rows []model.StudentBooking) []model.StudentBooking {
	out := make([]model.StudentBooking, 0, len(rows))
	for _, r := range rows {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

// FilterTutor оставляет только полностью заполненные записи
func FilterTutor(rows []model.TutorBooking) []model.TutorBooking {
	out := make([]model.TutorBooking, 0, len(rows))
	for _, r := range rows {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}
