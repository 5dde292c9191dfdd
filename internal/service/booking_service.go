package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/metrics"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

type BookingService struct {
	dir    repository.Directory
	logger *zap.Logger
}

func NewBookingService(dir repository.Directory, logger *zap.Logger) *BookingService {
	return &BookingService{
		dir:    dir,
		logger: logger,
	}
}

// BookSlot записывает пользователя сессии к репетитору одной атомарной записью:
// слот уходит из расписания, запись появляется у обеих сторон.
// Одновременные бронирования одного слота не проверяются
func (s *BookingService) BookSlot(ctx context.Context, sess *session.Session, tutorID, tutorName, subject string, t time.Time) error {
	if err := session.Require(sess); err != nil {
		return err
	}
	if strings.TrimSpace(tutorID) == "" || strings.TrimSpace(subject) == "" || t.IsZero() {
		return fmt.Errorf("booking needs tutor, subject and time: %w", model.ErrInvalidInput)
	}

	t = model.NormalizeSlot(t)
	write := model.BookingWrite{
		TutorID:   tutorID,
		StudentID: sess.UID,
		Subject:   subject,
		Time:      t,
		TutorSide: model.TutorBooking{
			Subject:      subject,
			StudentEmail: sess.Email,
			Time:         t,
		},
		StudentSide: model.StudentBooking{
			Subject:   subject,
			Time:      t,
			TutorID:   tutorID,
			TutorName: tutorName,
		},
	}

	if err := s.dir.CommitBooking(ctx, write); err != nil {
		metrics.Bookings.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("commit booking: %w", err)
	}

	metrics.Bookings.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info("Slot booked",
		zap.String("tutor_id", tutorID),
		zap.String("student_id", sess.UID),
		zap.String("subject", subject),
		zap.Time("time", t))

	return nil
}

// FetchBookingOverview собирает записи пользователя с обеих сторон
func (s *BookingService) FetchBookingOverview(ctx context.Context, userID string) (*model.BookingOverview, error) {
	user, err := s.dir.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &model.BookingOverview{
		IsTutor:         user.IsTutor,
		TutorBookings:   append([]model.TutorBooking{}, user.SelectedSlots...),
		StudentBookings: append([]model.StudentBooking{}, user.UserBookings...),
	}, nil
}
