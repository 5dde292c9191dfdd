// Package postgres реализует repository.Directory поверх PostgreSQL (pgx).
// Документ пользователя разложен по таблицам users, available_slots,
// selected_slots и user_bookings; атомарность обеспечивают транзакции.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Directory struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ repository.Directory = (*Directory)(nil)

func NewDirectory(pool *pgxpool.Pool, logger *zap.Logger) *Directory {
	return &Directory{
		pool:   pool,
		logger: logger,
	}
}

// wrap сохраняет доменные ошибки и заворачивает ошибки драйвера в ErrBackend
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrEmailTaken):
		return err
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	default:
		return model.BackendError(op, err)
	}
}

// GetUser собирает документ пользователя из всех таблиц
func (d *Directory) GetUser(ctx context.Context, uid string) (*model.User, error) {
	user, err := NewUserRepository(d.pool).GetByUID(ctx, uid, false)
	if err != nil {
		return nil, wrap("get user", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}

	slots, err := NewSlotRepository(d.pool).GetByTutorIDs(ctx, []string{uid})
	if err != nil {
		return nil, wrap("get user slots", err)
	}
	user.AvailableSlots = mergeSubjects(user.Subjects, slots[uid])

	bookings := NewBookingRepository(d.pool)
	if user.SelectedSlots, err = bookings.GetTutorSide(ctx, uid); err != nil {
		return nil, wrap("get selected slots", err)
	}
	if user.UserBookings, err = bookings.GetStudentSide(ctx, uid); err != nil {
		return nil, wrap("get user bookings", err)
	}

	return user, nil
}

// ListTutors получает репетиторов вместе со свободными слотами
func (d *Directory) ListTutors(ctx context.Context) ([]*model.User, error) {
	tutors, err := NewUserRepository(d.pool).GetTutors(ctx)
	if err != nil {
		return nil, wrap("list tutors", err)
	}

	uids := make([]string, 0, len(tutors))
	for _, t := range tutors {
		uids = append(uids, t.UID)
	}

	slots, err := NewSlotRepository(d.pool).GetByTutorIDs(ctx, uids)
	if err != nil {
		return nil, wrap("list tutor slots", err)
	}
	for _, t := range tutors {
		t.AvailableSlots = mergeSubjects(t.Subjects, slots[t.UID])
	}

	return tutors, nil
}

// CreateAccount создаёт пользователя и учётные данные в одной транзакции
func (d *Directory) CreateAccount(ctx context.Context, account *model.Account, user *model.User) error {
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if err := NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := NewAccountRepository(tx).Create(ctx, account); err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("create account %s: %w", account.Email, model.ErrEmailTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return wrap("create account", err)
	}

	d.logger.Info("Account created",
		zap.String("uid", user.UID),
		zap.String("email", account.Email))

	return nil
}

// GetAccountByEmail получает учётные данные
func (d *Directory) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	account, err := NewAccountRepository(d.pool).GetByEmail(ctx, email)
	if err != nil {
		return nil, wrap("get account", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %s: %w", email, model.ErrNotFound)
	}
	return account, nil
}

// UpdateProfile обновляет поля профиля
func (d *Directory) UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) error {
	if err := NewUserRepository(d.pool).UpdateProfile(ctx, uid, update); err != nil {
		return wrap("update profile", err)
	}
	return nil
}

// UpdateSubjects блокирует строку пользователя, вычисляет новые значения и
// записывает предметы и слоты в той же транзакции
func (d *Directory) UpdateSubjects(ctx context.Context, uid string, fn repository.SubjectsMutation) error {
	var fnErr error

	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		users := NewUserRepository(tx)
		slotRepo := NewSlotRepository(tx)

		user, err := users.GetByUID(ctx, uid, true)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
		}

		current, err := slotRepo.GetByTutorIDs(ctx, []string{uid})
		if err != nil {
			return err
		}

		subjects, slots, err := fn(user.Subjects, mergeSubjects(user.Subjects, current[uid]))
		if err != nil {
			fnErr = err
			return err
		}

		if err := users.SetSubjects(ctx, uid, subjects); err != nil {
			return err
		}
		return slotRepo.ReplaceAll(ctx, uid, slots)
	})

	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return wrap("update subjects", err)
	}
	return nil
}

// AddSlot добавляет слот
func (d *Directory) AddSlot(ctx context.Context, uid, subject string, t time.Time) error {
	if err := NewSlotRepository(d.pool).Add(ctx, uid, subject, t); err != nil {
		return wrap("add slot", err)
	}
	return nil
}

// RemoveSlot удаляет слот. Отсутствующий слот не ошибка
func (d *Directory) RemoveSlot(ctx context.Context, uid, subject string, t time.Time) error {
	if _, err := NewSlotRepository(d.pool).Remove(ctx, uid, subject, t); err != nil {
		return wrap("remove slot", err)
	}
	return nil
}

// CommitBooking убирает слот и записывает бронирование для обеих сторон в одной транзакции
func (d *Directory) CommitBooking(ctx context.Context, w model.BookingWrite) error {
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		// TODO: отклонять бронирование, если слот уже удалён (removed == 0), после решения по двойной записи
		removed, err := NewSlotRepository(tx).Remove(ctx, w.TutorID, w.Subject, w.Time)
		if err != nil {
			return err
		}
		if removed == 0 {
			d.logger.Warn("Booking slot was not in availability",
				zap.String("tutor_id", w.TutorID),
				zap.String("subject", w.Subject),
				zap.Time("time", w.Time))
		}

		bookings := NewBookingRepository(tx)
		if err := bookings.AddTutorSide(ctx, w.TutorID, w.TutorSide); err != nil {
			return err
		}
		return bookings.AddStudentSide(ctx, w.StudentID, w.StudentSide)
	})
	if err != nil {
		return wrap("commit booking", err)
	}
	return nil
}

// mergeSubjects гарантирует ключ в карте слотов для каждого предмета
func mergeSubjects(subjects []string, slots map[string][]time.Time) map[string][]time.Time {
	merged := make(map[string][]time.Time, len(subjects)+len(slots))
	for _, s := range subjects {
		merged[s] = []time.Time{}
	}
	for s, times := range slots {
		merged[s] = times
	}
	return merged
}
