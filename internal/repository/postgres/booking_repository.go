package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

type BookingRepository struct {
	q querier
}

func NewBookingRepository(q querier) *BookingRepository {
	return &BookingRepository{q: q}
}

// AddTutorSide добавляет запись в selectedSlots репетитора
func (r *BookingRepository) AddTutorSide(ctx context.Context, tutorUID string, b model.TutorBooking) error {
	query := `
		INSERT INTO selected_slots (tutor_uid, subject, student_email, slot_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, tutorUID, b.Subject, b.StudentEmail, b.Time); err != nil {
		return fmt.Errorf("add tutor booking: %w", err)
	}

	return nil
}

// AddStudentSide добавляет запись в userBookings ученика
func (r *BookingRepository) AddStudentSide(ctx context.Context, studentUID string, b model.StudentBooking) error {
	query := `
		INSERT INTO user_bookings (student_uid, subject, slot_time, tutor_uid, tutor_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, studentUID, b.Subject, b.Time, b.TutorID, b.TutorName); err != nil {
		return fmt.Errorf("add student booking: %w", err)
	}

	return nil
}

// GetTutorSide получает записи, где пользователь - репетитор
func (r *BookingRepository) GetTutorSide(ctx context.Context, tutorUID string) ([]model.TutorBooking, error) {
	query := `
		SELECT subject, student_email, slot_time
		FROM selected_slots
		WHERE tutor_uid = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, tutorUID)
	if err != nil {
		return nil, fmt.Errorf("get tutor bookings: %w", err)
	}
	defer rows.Close()

	bookings := []model.TutorBooking{}
	for rows.Next() {
		var b model.TutorBooking
		if err := rows.Scan(&b.Subject, &b.StudentEmail, &b.Time); err != nil {
			return nil, fmt.Errorf("scan tutor booking: %w", err)
		}
		b.Time = b.Time.UTC()
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tutor bookings: %w", err)
	}

	return bookings, nil
}

// GetStudentSide получает записи, где пользователь - ученик
func (r *BookingRepository) GetStudentSide(ctx context.Context, studentUID string) ([]model.StudentBooking, error) {
	query := `
		SELECT subject, slot_time, tutor_uid, tutor_name
		FROM user_bookings
		WHERE student_uid = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, studentUID)
	if err != nil {
		return nil, fmt.Errorf("get student bookings: %w", err)
	}
	defer rows.Close()

	bookings := []model.StudentBooking{}
	for rows.Next() {
		var b model.StudentBooking
		if err := rows.Scan(&b.Subject, &b.Time, &b.TutorID, &b.TutorName); err != nil {
			return nil, fmt.Errorf("scan student booking: %w", err)
		}
		b.Time = b.Time.UTC()
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student bookings: %w", err)
	}

	return bookings, nil
}
