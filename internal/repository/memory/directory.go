// Package memory реализует repository.Directory в памяти процесса.
// Используется в тестах и при STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
)

// Fault точка, в которой можно подменить ошибку для тестов
type Fault string

const (
	// FaultBookingStudentWrite срабатывает после подготовки изменения репетитора,
	// но до изменения ученика
	FaultBookingStudentWrite Fault = "booking_student_write"
	// FaultSubjectsWrite срабатывает после вычисления новых значений, до записи
	FaultSubjectsWrite Fault = "subjects_write"
	// FaultGetUser срабатывает при чтении записи
	FaultGetUser Fault = "get_user"
	// FaultSlotWrite срабатывает при AddSlot/RemoveSlot
	FaultSlotWrite Fault = "slot_write"
)

// Directory каталог в памяти. Все изменения применяются к копиям и
// публикуются целиком, поэтому частично применённых записей не бывает
type Directory struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	accounts map[string]*model.Account // email -> account
	faults   map[Fault]error
}

var _ repository.Directory = (*Directory)(nil)

// NewDirectory создаёт пустой каталог
func NewDirectory() *Directory {
	return &Directory{
		users:    make(map[string]*model.User),
		accounts: make(map[string]*model.Account),
		faults:   make(map[Fault]error),
	}
}

// Put кладёт запись как есть, без учётных данных
func (d *Directory) Put(user *model.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.UID] = user.Clone()
}

// InjectFault заставляет операцию вернуть err в указанной точке. nil снимает ошибку
func (d *Directory) InjectFault(point Fault, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.faults, point)
		return
	}
	d.faults[point] = err
}

func (d *Directory) fault(point Fault) error {
	if err, ok := d.faults[point]; ok {
		return model.BackendError(string(point), err)
	}
	return nil
}

// GetUser возвращает копию записи
func (d *Directory) GetUser(ctx context.Context, uid string) (*model.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.fault(FaultGetUser); err != nil {
		return nil, err
	}
	user, ok := d.users[uid]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}
	return user.Clone(), nil
}

// ListTutors возвращает репетиторов, отсортированных по имени
func (d *Directory) ListTutors(ctx context.Context) ([]*model.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var tutors []*model.User
	for _, u := range d.users {
		if u.IsTutor {
			tutors = append(tutors, u.Clone())
		}
	}
	sort.Slice(tutors, func(i, j int) bool {
		return tutors[i].Name < tutors[j].Name
	})
	return tutors, nil
}

// CreateAccount сохраняет учётные данные и запись пользователя вместе
func (d *Directory) CreateAccount(ctx context.Context, account *model.Account, user *model.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, exists := d.accounts[email]; exists {
		return fmt.Errorf("create account %s: %w", email, model.ErrEmailTaken)
	}
	acc := *account
	d.accounts[email] = &acc
	d.users[user.UID] = user.Clone()
	return nil
}

// GetAccountByEmail ищет учётные данные по email
func (d *Directory) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.accounts[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", email, model.ErrNotFound)
	}
	c := *acc
	return &c, nil
}

// UpdateProfile перезаписывает поля профиля
func (d *Directory) UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[uid]
	if !ok {
		return fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}
	next := user.Clone()
	next.Name = update.Name
	next.PricePerHour = update.PricePerHour
	next.About = update.About
	next.IsTutor = update.IsTutor
	d.users[uid] = next
	return nil
}

// UpdateSubjects выполняет fn под эксклюзивной блокировкой
func (d *Directory) UpdateSubjects(ctx context.Context, uid string, fn repository.SubjectsMutation) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[uid]
	if !ok {
		return fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}

	subjects, slots, err := fn(append([]string{}, user.Subjects...), model.CloneSlots(user.AvailableSlots))
	if err != nil {
		return err
	}
	if err := d.fault(FaultSubjectsWrite); err != nil {
		return err
	}

	next := user.Clone()
	next.Subjects = subjects
	next.AvailableSlots = slots
	d.users[uid] = next
	return nil
}

// AddSlot добавляет время в слоты предмета
func (d *Directory) AddSlot(ctx context.Context, uid, subject string, t time.Time) error {
	return d.updateSlots(uid, subject, func(times []time.Time) []time.Time {
		return model.UnionSlot(times, t)
	})
}

// RemoveSlot убирает время из слотов предмета
func (d *Directory) RemoveSlot(ctx context.Context, uid, subject string, t time.Time) error {
	return d.updateSlots(uid, subject, func(times []time.Time) []time.Time {
		return model.RemoveSlot(times, t)
	})
}

func (d *Directory) updateSlots(uid, subject string, fn func([]time.Time) []time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.fault(FaultSlotWrite); err != nil {
		return err
	}
	user, ok := d.users[uid]
	if !ok {
		return fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}
	next := user.Clone()
	if next.AvailableSlots == nil {
		next.AvailableSlots = map[string][]time.Time{}
	}
	next.AvailableSlots[subject] = fn(next.AvailableSlots[subject])
	d.users[uid] = next
	return nil
}

// CommitBooking готовит обе изменённые записи и публикует их одновременно
func (d *Directory) CommitBooking(ctx context.Context, w model.BookingWrite) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tutor, ok := d.users[w.TutorID]
	if !ok {
		return fmt.Errorf("tutor %s: %w", w.TutorID, model.ErrNotFound)
	}
	nextTutor := tutor.Clone()
	if nextTutor.AvailableSlots == nil {
		nextTutor.AvailableSlots = map[string][]time.Time{}
	}
	nextTutor.AvailableSlots[w.Subject] = model.RemoveSlot(nextTutor.AvailableSlots[w.Subject], w.Time)
	nextTutor.SelectedSlots = appendTutorBooking(nextTutor.SelectedSlots, w.TutorSide)

	if err := d.fault(FaultBookingStudentWrite); err != nil {
		return err
	}

	// Репетитор может записаться сам к себе, тогда обе стороны в одном документе
	var nextStudent *model.User
	if w.StudentID == w.TutorID {
		nextStudent = nextTutor
	} else {
		student, ok := d.users[w.StudentID]
		if !ok {
			return fmt.Errorf("student %s: %w", w.StudentID, model.ErrNotFound)
		}
		nextStudent = student.Clone()
	}
	nextStudent.UserBookings = appendStudentBooking(nextStudent.UserBookings, w.StudentSide)

	d.users[w.TutorID] = nextTutor
	d.users[w.StudentID] = nextStudent
	return nil
}

// appendTutorBooking повторяет семантику arrayUnion: одинаковая запись не дублируется
func appendTutorBooking(list []model.TutorBooking, b model.TutorBooking) []model.TutorBooking {
	for _, existing := range list {
		if existing.Subject == b.Subject && existing.StudentEmail == b.StudentEmail && existing.Time.Equal(b.Time) {
			return list
		}
	}
	return append(list, b)
}

func appendStudentBooking(list []model.StudentBooking, b model.StudentBooking) []model.StudentBooking {
	for _, existing := range list {
		if existing.Subject == b.Subject && existing.TutorID == b.TutorID &&
			existing.TutorName == b.TutorName && existing.Time.Equal(b.Time) {
			return list
		}
	}
	return append(list, b)
}
