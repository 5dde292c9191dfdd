package firestore

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUser(t *testing.T) {
	slot := time.Date(2030, 3, 5, 14, 0, 30, 0, time.UTC)

	data := map[string]interface{}{
		fieldEmail:        "anna@x.io",
		fieldName:         "Anna",
		fieldIsTutor:      true,
		fieldPricePerHour: int64(1500),
		fieldSubjects:     []interface{}{"Math"},
		fieldAvailableSlots: map[string]interface{}{
			"Math":    []interface{}{slot},
			"Physics": nil,
		},
		fieldSelectedSlots: []interface{}{
			map[string]interface{}{fieldSubject: "Math", fieldEmail: "bob@x.io", fieldTime: slot},
		},
	}

	user, err := decodeUser("tutor-1", data)
	require.NoError(t, err)

	assert.Equal(t, "tutor-1", user.UID)
	assert.Equal(t, 1500, user.PricePerHour)
	assert.Equal(t, []string{"Math"}, user.Subjects)
	require.Len(t, user.AvailableSlots["Math"], 1)
	assert.True(t, user.AvailableSlots["Math"][0].Equal(model.NormalizeSlot(slot)))
	assert.Empty(t, user.AvailableSlots["Physics"])
	assert.Contains(t, user.AvailableSlots, "Physics")
	require.Len(t, user.SelectedSlots, 1)
	assert.Equal(t, "bob@x.io", user.SelectedSlots[0].StudentEmail)
	assert.Empty(t, user.UserBookings)
}

func TestDecodeUser_Malformed(t *testing.T) {
	base := func() map[string]interface{} {
		return map[string]interface{}{
			fieldEmail:   "bob@x.io",
			fieldName:    "Bob",
			fieldIsTutor: false,
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing email", func(m map[string]interface{}) { delete(m, fieldEmail) }},
		{"isTutor not bool", func(m map[string]interface{}) { m[fieldIsTutor] = "yes" }},
		{"slot not timestamp", func(m map[string]interface{}) {
			m[fieldAvailableSlots] = map[string]interface{}{"Math": []interface{}{"tomorrow"}}
		}},
		{"booking without tutor", func(m map[string]interface{}) {
			m[fieldUserBookings] = []interface{}{
				map[string]interface{}{fieldSubject: "Math", fieldTime: time.Now()},
			}
		}},
		{"price as string", func(m map[string]interface{}) { m[fieldPricePerHour] = "1000" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := base()
			tt.mutate(data)

			_, err := decodeUser("u", data)
			assert.ErrorIs(t, err, model.ErrParse)
		})
	}
}

func TestEncodeDecodeUser(t *testing.T) {
	user := model.NewUser("u-1", "bob@x.io")
	user.Name = "Bob"
	slot := model.NormalizeSlot(time.Now())
	user.UserBookings = append(user.UserBookings, model.StudentBooking{
		Subject: "Math", Time: slot, TutorID: "t-1", TutorName: "Anna",
	})

	data := encodeUser(user)
	// Firestore отдаёт массивы как []interface{}
	data[fieldSubjects] = []interface{}{}

	decoded, err := decodeUser("u-1", data)
	require.NoError(t, err)
	assert.Equal(t, user.UserBookings, decoded.UserBookings)
	assert.Equal(t, "Bob", decoded.Name)
	assert.Equal(t, "bob@x.io", decoded.Email)
}
