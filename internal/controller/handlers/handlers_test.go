package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/presenter"
	"github.com/Freeeeeet/tutor_connect/internal/repository/memory"
	"github.com/Freeeeeet/tutor_connect/internal/service"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chatID int64 = 42

// fakeSender складывает тексты отправленных сообщений в канал
type fakeSender struct {
	texts    chan string
	mu       sync.Mutex
	deleted  []int
	answered []string
	keyboard *models.InlineKeyboardMarkup
}

func newFakeSender() *fakeSender {
	return &fakeSender{texts: make(chan string, 64)}
}

func (s *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if kb, ok := params.ReplyMarkup.(*models.InlineKeyboardMarkup); ok {
		s.mu.Lock()
		s.keyboard = kb
		s.mu.Unlock()
	}
	s.texts <- params.Text
	return &models.Message{Text: params.Text}, nil
}

func (s *fakeSender) SendPhoto(_ context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	s.texts <- "photo: " + params.Caption
	return &models.Message{}, nil
}

func (s *fakeSender) DeleteMessage(_ context.Context, params *bot.DeleteMessageParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, params.MessageID)
	return true, nil
}

func (s *fakeSender) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answered = append(s.answered, params.Text)
	return true, nil
}

// button возвращает данные кнопки с текстом label из последней клавиатуры
func (s *fakeSender) button(t *testing.T, label string) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	require.NotNil(t, s.keyboard, "no inline keyboard was sent")
	for _, row := range s.keyboard.InlineKeyboard {
		for _, btn := range row {
			if btn.Text == label {
				return btn.CallbackData
			}
		}
	}
	t.Fatalf("no button %q", label)
	return ""
}

// waitFor читает сообщения, пока не встретит содержащее substr
func (s *fakeSender) waitFor(t *testing.T, substr string) string {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case text := <-s.texts:
			if strings.Contains(text, substr) {
				return text
			}
		case <-timeout:
			t.Fatalf("no message containing %q", substr)
			return ""
		}
	}
}

type memoryCache struct {
	mu        sync.Mutex
	snapshots map[string]cache.Snapshot
}

func (c *memoryCache) Save(_ context.Context, owner string, s cache.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[owner] = s
	return nil
}

func (c *memoryCache) Load(_ context.Context, owner string) (*cache.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.snapshots[owner]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memoryCache) Close() error { return nil }

var julyFirst = time.Date(2030, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestHandlers(t *testing.T) (*Handlers, *memory.Directory) {
	t.Helper()

	dir := memory.NewDirectory()
	anna := model.NewUser("anna-uid", "anna@example.com")
	anna.Name = "Anna"
	anna.IsTutor = true
	anna.PricePerHour = 1500
	anna.Subjects = []string{"Math"}
	anna.AvailableSlots = map[string][]time.Time{"Math": {julyFirst}}
	dir.Put(anna)

	logger := zap.NewNop()
	h := NewHandlers(
		service.NewAuthService(dir, logger),
		service.NewUserService(dir, logger),
		service.NewSlotService(dir, logger),
		service.NewBookingService(dir, logger),
		&memoryCache{snapshots: make(map[string]cache.Snapshot)},
		session.NewManager(),
		time.UTC,
		logger,
	)
	t.Cleanup(h.Close)
	return h, dir
}

func text(id int, value string) *models.Message {
	return &models.Message{ID: id, Chat: models.Chat{ID: chatID}, Text: value}
}

func callback(data string) *models.CallbackQuery {
	return &models.CallbackQuery{
		ID:   "cb",
		From: models.User{ID: chatID},
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: chatID}},
		},
		Data: data,
	}
}

func signUp(t *testing.T, h *Handlers, s *fakeSender, email string) {
	t.Helper()
	ctx := context.Background()

	h.route(ctx, s, text(1, "/signup"))
	h.route(ctx, s, text(2, email))
	h.route(ctx, s, text(3, "secret1"))
	s.waitFor(t, "Аккаунт создан")
	require.NotNil(t, h.sessions.Current(chatID))
}

func TestSignUpAndBookSlot(t *testing.T) {
	h, dir := newTestHandlers(t)
	s := newFakeSender()
	ctx := context.Background()

	signUp(t, h, s, "bob@example.com")
	assert.Contains(t, s.deleted, 3, "password message is removed")

	h.route(ctx, s, text(4, "/tutors"))
	s.waitFor(t, "Найдено 1 репетитор")

	h.routeCallback(ctx, s, callback(CallbackTutor+"anna-uid"))
	card := s.waitFor(t, "1500 ₽/час")
	assert.Contains(t, card, "Math: 1 слот")

	h.routeCallback(ctx, s, callback(s.button(t, "01.07 10:00")))
	s.waitFor(t, "Вы записаны")

	anna, err := dir.GetUser(ctx, "anna-uid")
	require.NoError(t, err)
	assert.Empty(t, anna.AvailableSlots["Math"])
	require.Len(t, anna.SelectedSlots, 1)
	assert.Equal(t, "bob@example.com", anna.SelectedSlots[0].StudentEmail)

	h.route(ctx, s, text(5, "/mybookings"))
	bookings := s.waitFor(t, "Мои записи")
	assert.Contains(t, bookings, "Math, 1 июля: 10:00")
	assert.Contains(t, bookings, "Anna")
}

func TestBookWithStaleCard(t *testing.T) {
	h, _ := newTestHandlers(t)
	s := newFakeSender()

	signUp(t, h, s, "bob@example.com")
	h.routeCallback(context.Background(), s, callback(CallbackBook+"3:100"))
	h.routeCallback(context.Background(), s, callback(CallbackBook+"1:3:100"))

	assert.Equal(t, []string{
		"❌ Карточка устарела. Откройте репетитора заново",
		"❌ Карточка устарела. Откройте репетитора заново",
	}, s.answered)
}

func TestBookFromOlderCard(t *testing.T) {
	h, dir := newTestHandlers(t)
	s := newFakeSender()
	ctx := context.Background()

	boris := model.NewUser("boris-uid", "boris@example.com")
	boris.Name = "Boris"
	boris.IsTutor = true
	boris.PricePerHour = 900
	boris.Subjects = []string{"Art"}
	boris.AvailableSlots = map[string][]time.Time{"Art": {julyFirst.Add(48 * time.Hour)}}
	dir.Put(boris)

	signUp(t, h, s, "bob@example.com")

	h.routeCallback(ctx, s, callback(CallbackTutor+"anna-uid"))
	s.waitFor(t, "1500 ₽/час")
	annaButton := s.button(t, "01.07 10:00")

	h.routeCallback(ctx, s, callback(CallbackTutor+"boris-uid"))
	s.waitFor(t, "900 ₽/час")

	h.routeCallback(ctx, s, callback(annaButton))
	assert.Contains(t, s.answered, "❌ Карточка устарела. Откройте репетитора заново")

	// бронирование не дошло до хранилища ни у одного репетитора
	anna, err := dir.GetUser(ctx, "anna-uid")
	require.NoError(t, err)
	assert.Len(t, anna.AvailableSlots["Math"], 1)
	assert.Empty(t, anna.SelectedSlots)

	borisAfter, err := dir.GetUser(ctx, "boris-uid")
	require.NoError(t, err)
	assert.Len(t, borisAfter.AvailableSlots["Art"], 1)
	assert.Empty(t, borisAfter.SelectedSlots)

	bobSession := h.sessions.Current(chatID)
	require.NotNil(t, bobSession)
	bob, err := dir.GetUser(ctx, bobSession.UID)
	require.NoError(t, err)
	assert.Empty(t, bob.UserBookings)
}

func TestCommandsRequireSession(t *testing.T) {
	h, _ := newTestHandlers(t)
	s := newFakeSender()
	ctx := context.Background()

	for _, cmd := range []string{"/mybookings", "/tutors", "/subjects", "/profile", "/addsubject Math"} {
		h.route(ctx, s, text(1, cmd))
		s.waitFor(t, "Сначала войдите")
	}
}

func TestTutorEditsSubjectsAndSlots(t *testing.T) {
	h, _ := newTestHandlers(t)
	s := newFakeSender()
	ctx := context.Background()

	signUp(t, h, s, "carol@example.com")

	h.route(ctx, s, text(4, "/addsubject Physics"))
	assert.Contains(t, s.waitFor(t, "Мои предметы"), "Physics (0 слотов)")

	h.route(ctx, s, text(5, "/addslot Physics; 01.07.2030 10:00"))
	assert.Contains(t, s.waitFor(t, "Мои предметы"), "1 июля: 10:00")

	h.route(ctx, s, text(6, "/addslot Chemistry; 01.07.2030 10:00"))
	s.waitFor(t, "Не найдено")

	h.route(ctx, s, text(7, "/delslot Physics; 01.07.2030 10:00"))
	assert.Contains(t, s.waitFor(t, "Мои предметы"), "Physics (0 слотов)")

	h.route(ctx, s, text(8, "/delsubject Physics"))
	s.waitFor(t, "У вас пока нет предметов")

	h.route(ctx, s, text(9, "/addslot Physics"))
	s.waitFor(t, "Формат: /addslot")
}

func TestWeekImage(t *testing.T) {
	h, _ := newTestHandlers(t)
	s := newFakeSender()

	signUp(t, h, s, "frank@example.com")
	h.route(context.Background(), s, text(4, "/week next"))

	assert.Contains(t, s.waitFor(t, "photo:"), "🗓 Неделя")
}

func TestWeekSlots(t *testing.T) {
	user := model.NewUser("anna-uid", "anna@example.com")
	user.AvailableSlots = map[string][]time.Time{"Math": {julyFirst}}
	user.SelectedSlots = []model.TutorBooking{{Subject: "Math", StudentEmail: "bob@example.com", Time: julyFirst.Add(time.Hour)}}

	slots := weekSlots(user)

	require.Len(t, slots, 2)
	assert.False(t, slots[0].Booked)
	assert.True(t, slots[1].Booked)
	assert.Equal(t, "bob@example.com", slots[1].Label)
}

func TestSetProfileDialog(t *testing.T) {
	h, dir := newTestHandlers(t)
	s := newFakeSender()
	ctx := context.Background()

	signUp(t, h, s, "dan@example.com")
	uid := h.sessions.Current(chatID).UID

	h.route(ctx, s, text(4, "/setprofile"))
	h.route(ctx, s, text(5, "Dan"))
	h.route(ctx, s, text(6, "много"))
	s.waitFor(t, "Введите целое число")
	h.route(ctx, s, text(7, "2000"))
	h.route(ctx, s, text(8, "-"))
	s.waitFor(t, "Вы преподаёте?")
	h.routeCallback(ctx, s, callback(CallbackProfileTutor+"yes"))
	s.waitFor(t, "Профиль сохранён")

	user, err := dir.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Dan", user.Name)
	assert.Equal(t, 2000, user.PricePerHour)
	assert.Empty(t, user.About)
	assert.True(t, user.IsTutor)
}

func TestSignOutClosesSession(t *testing.T) {
	h, _ := newTestHandlers(t)
	s := newFakeSender()
	ctx := context.Background()

	signUp(t, h, s, "erin@example.com")
	h.route(ctx, s, text(4, "/signout"))
	s.waitFor(t, "Вы вышли")

	assert.Nil(t, h.sessions.Current(chatID))
	assert.Nil(t, h.clients.get(chatID))
}

func TestCloseStopsChatQueues(t *testing.T) {
	h, _ := newTestHandlers(t)
	s := newFakeSender()

	signUp(t, h, s, "erin@example.com")
	c := h.clients.get(chatID)
	require.NotNil(t, c)

	h.Close()
	h.Close()

	assert.Nil(t, h.clients.get(chatID))
	assert.False(t, c.queue.Post(func() {}), "queue of a closed chat rejects tasks")
}

func TestRenderBookings(t *testing.T) {
	state := presenter.BookingsState{
		State:   presenter.StateDisplayingCached,
		Mode:    presenter.ModeTutor,
		IsTutor: true,
		TutorBookings: []model.TutorBooking{
			{Subject: "Math", StudentEmail: "bob@example.com", Time: julyFirst},
		},
	}

	text, kb := renderBookings(state, time.UTC)

	assert.Contains(t, text, "показаны сохранённые записи")
	assert.Contains(t, text, "bob@example.com")
	require.NotNil(t, kb)
	assert.Equal(t, "✅ Я репетитор", kb.InlineKeyboard[0][1].Text)

	state.IsTutor = false
	state.Mode = presenter.ModeStudent
	state.State = presenter.StateDisplayingRemote
	text, kb = renderBookings(state, time.UTC)
	assert.NotContains(t, text, "сохранённые")
	assert.Nil(t, kb)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{model.ErrNotAuthenticated, "Сначала войдите"},
		{model.BackendError("get user", fmt.Errorf("timeout")), "Сервер недоступен"},
		{fmt.Errorf("fetch: %w", model.ErrNotFound), "Не найдено"},
		{model.ErrInvalidCredentials, "Неверный email или пароль"},
		{fmt.Errorf("other"), "Произошла ошибка"},
	}

	for _, tt := range tests {
		assert.Contains(t, ErrorMessage(tt.err), tt.want)
	}
}

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("/AddSlot@tutor_bot  Math; 01.07.2030 10:00 ")
	assert.Equal(t, "/addslot", cmd)
	assert.Equal(t, "Math; 01.07.2030 10:00", args)

	cmd, args = parseCommand("hello")
	assert.Empty(t, cmd)
	assert.Equal(t, "hello", args)

	subject, when, ok := splitSlotArgs(args + "; x")
	assert.True(t, ok)
	assert.Equal(t, "hello", subject)
	assert.Equal(t, "x", when)
}
