package model

import "time"

// TutorBooking запись на занятие глазами репетитора
type TutorBooking struct {
	Subject      string    `json:"subject"`
	StudentEmail string    `json:"email"`
	Time         time.Time `json:"time"`
}

// Valid проверяет, что заполнены все обязательные поля
func (b TutorBooking) Valid() bool {
	return b.Subject != "" && b.StudentEmail != "" && !b.Time.IsZero()
}

// StudentBooking запись на занятие глазами ученика
type StudentBooking struct {
	Subject   string    `json:"subject"`
	Time      time.Time `json:"time"`
	TutorID   string    `json:"tutor_id"`
	TutorName string    `json:"tutor_name"`
}

// Valid проверяет, что заполнены все обязательные поля
func (b StudentBooking) Valid() bool {
	return b.Subject != "" && b.TutorID != "" && b.TutorName != "" && !b.Time.IsZero()
}

// BookingOverview все записи пользователя с обеих сторон
type BookingOverview struct {
	IsTutor         bool
	TutorBookings   []TutorBooking
	StudentBookings []StudentBooking
}

// BookingWrite описывает одну атомарную запись бронирования:
// слот уходит из availableSlots репетитора, в selectedSlots репетитора и
// userBookings ученика добавляется по одной записи
type BookingWrite struct {
	TutorID     string
	StudentID   string
	Subject     string
	Time        time.Time
	TutorSide   TutorBooking
	StudentSide StudentBooking
}
