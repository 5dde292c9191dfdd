package model

import "time"

// PlaceholderName имя, которое получает новый пользователь при регистрации
const PlaceholderName = "*Пожалуйста, представьтесь*"

// User запись пользователя в каталоге. Репетитор это User с IsTutor = true
type User struct {
	UID            string                 `json:"uid"`
	Email          string                 `json:"email"`
	Name           string                 `json:"name"`
	PricePerHour   int                    `json:"price_per_hour"`
	IsTutor        bool                   `json:"is_tutor"`
	Subjects       []string               `json:"subjects"`
	About          string                 `json:"about"`
	AvailableSlots map[string][]time.Time `json:"available_slots"` // предмет -> свободные слоты
	SelectedSlots  []TutorBooking         `json:"selected_slots"`  // записи, где пользователь - репетитор
	UserBookings   []StudentBooking       `json:"user_bookings"`   // записи, где пользователь - ученик
	CreatedAt      time.Time              `json:"created_at"`
}

// NewUser создаёт запись для только что зарегистрированного аккаунта
func NewUser(uid, email string) *User {
	return &User{
		UID:            uid,
		Email:          email,
		Name:           PlaceholderName,
		Subjects:       []string{},
		AvailableSlots: map[string][]time.Time{},
		SelectedSlots:  []TutorBooking{},
		UserBookings:   []StudentBooking{},
		CreatedAt:      time.Now().UTC(),
	}
}

// HasSubject проверяет, ведёт ли пользователь предмет
func (u *User) HasSubject(name string) bool {
	for _, s := range u.Subjects {
		if s == name {
			return true
		}
	}
	_, ok := u.AvailableSlots[name]
	return ok
}

// Clone возвращает глубокую копию записи
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Subjects = append([]string(nil), u.Subjects...)
	c.AvailableSlots = CloneSlots(u.AvailableSlots)
	c.SelectedSlots = append([]TutorBooking(nil), u.SelectedSlots...)
	c.UserBookings = append([]StudentBooking(nil), u.UserBookings...)
	return &c
}

// ProfileUpdate поля профиля, которые пользователь меняет сам
type ProfileUpdate struct {
	Name         string
	PricePerHour int
	About        string
	IsTutor      bool
}

// Account учётные данные для входа. Пароль хранится только в виде bcrypt-хэша
type Account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
