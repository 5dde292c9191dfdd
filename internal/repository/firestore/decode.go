package firestore

import (
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

// Имена полей документа users/{uid}
const (
	fieldUID            = "uid"
	fieldEmail          = "email"
	fieldName           = "name"
	fieldPricePerHour   = "pricePerHour"
	fieldIsTutor        = "isTutor"
	fieldSubjects       = "subjects"
	fieldAbout          = "about"
	fieldAvailableSlots = "availableSlots"
	fieldSelectedSlots  = "selectedSlots"
	fieldUserBookings   = "userBookings"
	fieldCreatedAt      = "createdAt"

	fieldSubject      = "subject"
	fieldTime         = "time"
	fieldTutorID      = "tutorId"
	fieldTutorName    = "tutorName"
	fieldPasswordHash = "passwordHash"
)

// decodeUser разбирает документ пользователя. Обязательные поля email, name
// и isTutor; любой некорректный элемент вложенных коллекций делает весь
// документ нечитаемым
func decodeUser(uid string, data map[string]interface{}) (*model.User, error) {
	email, ok := data[fieldEmail].(string)
	if !ok {
		return nil, model.ParseError("user "+uid, fieldEmail)
	}
	name, ok := data[fieldName].(string)
	if !ok {
		return nil, model.ParseError("user "+uid, fieldName)
	}
	isTutor, ok := data[fieldIsTutor].(bool)
	if !ok {
		return nil, model.ParseError("user "+uid, fieldIsTutor)
	}

	user := model.NewUser(uid, email)
	user.Name = name
	user.IsTutor = isTutor

	if v, ok := data[fieldAbout].(string); ok {
		user.About = v
	}
	if v, ok := data[fieldCreatedAt].(time.Time); ok {
		user.CreatedAt = v
	}

	switch v := data[fieldPricePerHour].(type) {
	case nil:
	case int64:
		user.PricePerHour = int(v)
	case float64:
		user.PricePerHour = int(v)
	default:
		return nil, model.ParseError("user "+uid, fieldPricePerHour)
	}

	if raw, ok := data[fieldSubjects]; ok && raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return nil, model.ParseError("user "+uid, fieldSubjects)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, model.ParseError("user "+uid, fieldSubjects)
			}
			user.Subjects = append(user.Subjects, s)
		}
	}

	if raw, ok := data[fieldAvailableSlots]; ok && raw != nil {
		slots, err := decodeSlots(raw)
		if err != nil {
			return nil, model.ParseError("user "+uid, fieldAvailableSlots)
		}
		user.AvailableSlots = slots
	}

	if raw, ok := data[fieldSelectedSlots]; ok && raw != nil {
		items, ok := raw.([]interface{})
		if !ok {
			return nil, model.ParseError("user "+uid, fieldSelectedSlots)
		}
		for _, item := range items {
			b, ok := decodeTutorBooking(item)
			if !ok {
				return nil, model.ParseError("user "+uid, fieldSelectedSlots)
			}
			user.SelectedSlots = append(user.SelectedSlots, b)
		}
	}

	if raw, ok := data[fieldUserBookings]; ok && raw != nil {
		items, ok := raw.([]interface{})
		if !ok {
			return nil, model.ParseError("user "+uid, fieldUserBookings)
		}
		for _, item := range items {
			b, ok := decodeStudentBooking(item)
			if !ok {
				return nil, model.ParseError("user "+uid, fieldUserBookings)
			}
			user.UserBookings = append(user.UserBookings, b)
		}
	}

	return user, nil
}

func decodeSlots(raw interface{}) (map[string][]time.Time, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, model.ErrParse
	}

	slots := make(map[string][]time.Time, len(m))
	for subject, v := range m {
		times := []time.Time{}
		if v != nil {
			list, ok := v.([]interface{})
			if !ok {
				return nil, model.ErrParse
			}
			for _, item := range list {
				t, ok := item.(time.Time)
				if !ok {
					return nil, model.ErrParse
				}
				times = append(times, model.NormalizeSlot(t))
			}
		}
		slots[subject] = times
	}
	return slots, nil
}

func decodeTutorBooking(raw interface{}) (model.TutorBooking, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return model.TutorBooking{}, false
	}
	subject, ok1 := m[fieldSubject].(string)
	email, ok2 := m[fieldEmail].(string)
	t, ok3 := m[fieldTime].(time.Time)
	if !ok1 || !ok2 || !ok3 {
		return model.TutorBooking{}, false
	}
	return model.TutorBooking{Subject: subject, StudentEmail: email, Time: model.NormalizeSlot(t)}, true
}

func decodeStudentBooking(raw interface{}) (model.StudentBooking, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return model.StudentBooking{}, false
	}
	subject, ok1 := m[fieldSubject].(string)
	t, ok2 := m[fieldTime].(time.Time)
	tutorID, ok3 := m[fieldTutorID].(string)
	tutorName, ok4 := m[fieldTutorName].(string)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return model.StudentBooking{}, false
	}
	return model.StudentBooking{
		Subject:   subject,
		Time:      model.NormalizeSlot(t),
		TutorID:   tutorID,
		TutorName: tutorName,
	}, true
}

func decodeAccount(data map[string]interface{}) (*model.Account, error) {
	uid, ok1 := data[fieldUID].(string)
	email, ok2 := data[fieldEmail].(string)
	hash, ok3 := data[fieldPasswordHash].(string)
	if !ok1 || !ok2 || !ok3 {
		return nil, model.ParseError("account", fieldPasswordHash)
	}
	account := &model.Account{UID: uid, Email: email, PasswordHash: hash}
	if v, ok := data[fieldCreatedAt].(time.Time); ok {
		account.CreatedAt = v
	}
	return account, nil
}

func encodeUser(user *model.User) map[string]interface{} {
	subjects := user.Subjects
	if subjects == nil {
		subjects = []string{}
	}

	selected := make([]interface{}, 0, len(user.SelectedSlots))
	for _, b := range user.SelectedSlots {
		selected = append(selected, encodeTutorBooking(b))
	}
	bookings := make([]interface{}, 0, len(user.UserBookings))
	for _, b := range user.UserBookings {
		bookings = append(bookings, encodeStudentBooking(b))
	}

	return map[string]interface{}{
		fieldUID:            user.UID,
		fieldEmail:          user.Email,
		fieldName:           user.Name,
		fieldPricePerHour:   int64(user.PricePerHour),
		fieldIsTutor:        user.IsTutor,
		fieldSubjects:       subjects,
		fieldAbout:          user.About,
		fieldAvailableSlots: encodeSlots(user.AvailableSlots),
		fieldSelectedSlots:  selected,
		fieldUserBookings:   bookings,
		fieldCreatedAt:      user.CreatedAt,
	}
}

func encodeSlots(slots map[string][]time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(slots))
	for subject, times := range slots {
		list := make([]interface{}, 0, len(times))
		for _, t := range times {
			list = append(list, model.NormalizeSlot(t))
		}
		out[subject] = list
	}
	return out
}

func encodeTutorBooking(b model.TutorBooking) map[string]interface{} {
	return map[string]interface{}{
		fieldSubject: b.Subject,
		fieldEmail:   b.StudentEmail,
		fieldTime:    model.NormalizeSlot(b.Time),
	}
}

func encodeStudentBooking(b model.StudentBooking) map[string]interface{} {
	return map[string]interface{}{
		fieldSubject:   b.Subject,
		fieldTime:      model.NormalizeSlot(b.Time),
		fieldTutorID:   b.TutorID,
		fieldTutorName: b.TutorName,
	}
}
