package presenter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/dispatch"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository/memory"
	"github.com/Freeeeeet/tutor_connect/internal/service"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var julyFirst = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

type fetcherMock struct {
	mock.Mock
}

func (m *fetcherMock) FetchBookingOverview(ctx context.Context, userID string) (*model.BookingOverview, error) {
	args := m.Called(ctx, userID)
	overview, _ := args.Get(0).(*model.BookingOverview)
	return overview, args.Error(1)
}

// memoryCache снимки в памяти
type memoryCache struct {
	mu        sync.Mutex
	snapshots map[string]cache.Snapshot
}

func newMemoryCache() *memoryCache {
	return &memoryCache{snapshots: make(map[string]cache.Snapshot)}
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

// recorder пишет всё, что показал презентер, в канал. Методы вызываются из очереди
type recorder struct {
	events chan interface{}
}

func newRecorder() *recorder {
	return &recorder{events: make(chan interface{}, 32)}
}

type loadingEvent struct{}

type bookedEvent struct {
	tutorName, subject string
	t                  time.Time
}

type tutorEvent struct {
	tutor  *model.User
	groups []model.SubjectSlotGroup
}

func (r *recorder) ShowLoading()                            { r.events <- loadingEvent{} }
func (r *recorder) ShowBookings(s BookingsState)            { r.events <- s }
func (r *recorder) ShowError(err error)                     { r.events <- err }
func (r *recorder) ShowSubjects(g []model.SubjectSlotGroup) { r.events <- g }
func (r *recorder) ShowTutor(t *model.User, g []model.SubjectSlotGroup) {
	r.events <- tutorEvent{tutor: t, groups: g}
}
func (r *recorder) ShowBooked(tutorName, subject string, t time.Time) {
	r.events <- bookedEvent{tutorName: tutorName, subject: subject, t: t}
}

func (r *recorder) next(t *testing.T) interface{} {
	t.Helper()
	select {
	case e := <-r.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event from presenter")
		return nil
	}
}

func newQueue(t *testing.T) *dispatch.Queue {
	q := dispatch.NewQueue(16)
	t.Cleanup(q.Close)
	return q
}

func TestBookingsPresenter_RemoteSuccessSavesCache(t *testing.T) {
	fetcher := new(fetcherMock)
	overview := &model.BookingOverview{
		IsTutor:       true,
		TutorBookings: []model.TutorBooking{{Subject: "Math", StudentEmail: "bob@example.com", Time: julyFirst}},
	}
	fetcher.On("FetchBookingOverview", mock.Anything, "anna-uid").Return(overview, nil).Once()

	store := newMemoryCache()
	view := newRecorder()
	p := NewBookingsPresenter(newQueue(t), fetcher, store, view, zap.NewNop(), "anna-uid")

	p.ViewDidLoad(context.Background())

	assert.Equal(t, loadingEvent{}, view.next(t))
	state, ok := view.next(t).(BookingsState)
	require.True(t, ok)
	assert.Equal(t, StateDisplayingRemote, state.State)
	assert.Equal(t, ModeTutor, state.Mode)
	assert.Equal(t, overview.TutorBookings, state.TutorBookings)

	cached, err := store.Load(context.Background(), "anna-uid")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.True(t, cached.IsTutor)
	assert.Equal(t, overview.TutorBookings, cached.TutorBookings)

	fetcher.AssertExpectations(t)
}

func TestBookingsPresenter_FallsBackToCache(t *testing.T) {
	fetcher := new(fetcherMock)
	fetcher.On("FetchBookingOverview", mock.Anything, "bob-uid").
		Return(nil, model.BackendError("get user", errors.New("offline")))

	store := newMemoryCache()
	saved := cache.Snapshot{
		IsTutor:         true,
		StudentBookings: []model.StudentBooking{{Subject: "Math", Time: julyFirst, TutorID: "anna-uid", TutorName: "Anna"}},
		TutorBookings:   []model.TutorBooking{{Subject: "Art", StudentEmail: "carol@example.com", Time: julyFirst}},
	}
	require.NoError(t, store.Save(context.Background(), "bob-uid", saved))

	view := newRecorder()
	p := NewBookingsPresenter(newQueue(t), fetcher, store, view, zap.NewNop(), "bob-uid")
	p.ViewDidLoad(context.Background())

	assert.Equal(t, loadingEvent{}, view.next(t))
	err, ok := view.next(t).(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, model.ErrBackend)

	state, ok := view.next(t).(BookingsState)
	require.True(t, ok)
	assert.Equal(t, StateDisplayingCached, state.State)
	assert.True(t, state.IsTutor)
	assert.Equal(t, ModeTutor, state.Mode)
	assert.Equal(t, saved.StudentBookings, state.StudentBookings)
	assert.Equal(t, saved.TutorBookings, state.TutorBookings)
}

func TestBookingsPresenter_NoCacheShowsEmptyStudentMode(t *testing.T) {
	fetcher := new(fetcherMock)
	fetcher.On("FetchBookingOverview", mock.Anything, "bob-uid").Return(nil, model.ErrBackend)

	view := newRecorder()
	p := NewBookingsPresenter(newQueue(t), fetcher, newMemoryCache(), view, zap.NewNop(), "bob-uid")
	p.ViewDidLoad(context.Background())

	view.next(t) // loading
	view.next(t) // error

	state, ok := view.next(t).(BookingsState)
	require.True(t, ok)
	assert.Equal(t, StateDisplayingRemote, state.State)
	assert.Equal(t, ModeStudent, state.Mode)
	assert.False(t, state.IsTutor)
	assert.Empty(t, state.StudentBookings)
	assert.Empty(t, state.TutorBookings)
}

func TestBookingsPresenter_SetModeDoesNotFetch(t *testing.T) {
	fetcher := new(fetcherMock)
	fetcher.On("FetchBookingOverview", mock.Anything, "anna-uid").
		Return(&model.BookingOverview{IsTutor: true}, nil).Once()

	view := newRecorder()
	p := NewBookingsPresenter(newQueue(t), fetcher, newMemoryCache(), view, zap.NewNop(), "anna-uid")
	p.ViewDidLoad(context.Background())
	view.next(t)
	view.next(t)

	p.SetMode(ModeStudent)
	state := view.next(t).(BookingsState)
	assert.Equal(t, ModeStudent, state.Mode)
	assert.Equal(t, StateDisplayingRemote, state.State)

	fetcher.AssertNumberOfCalls(t, "FetchBookingOverview", 1)
}

func seedDirectory() *memory.Directory {
	dir := memory.NewDirectory()

	anna := model.NewUser("anna-uid", "anna@example.com")
	anna.Name = "Anna"
	anna.IsTutor = true
	anna.Subjects = []string{"Math"}
	anna.AvailableSlots = map[string][]time.Time{"Math": {julyFirst, julyFirst.Add(time.Hour)}}
	dir.Put(anna)

	bob := model.NewUser("bob-uid", "bob@example.com")
	bob.Name = "Bob"
	dir.Put(bob)

	return dir
}

func TestTutorDetailPresenter_BookRemovesSlotLocally(t *testing.T) {
	dir := seedDirectory()
	users := service.NewUserService(dir, zap.NewNop())
	bookings := service.NewBookingService(dir, zap.NewNop())
	bob := session.New("bob-uid", "bob@example.com")

	view := newRecorder()
	p := NewTutorDetailPresenter(newQueue(t), users, bookings, view, zap.NewNop(), bob)

	p.Load(context.Background(), "anna-uid")
	loaded := view.next(t).(tutorEvent)
	require.Len(t, loaded.groups, 1)
	assert.Len(t, loaded.groups[0].Slots, 2)

	// секунды не важны: слот сравнивается с точностью до минуты
	p.BookSlot(context.Background(), "anna-uid", "Math", julyFirst.Add(30*time.Second))

	updated := view.next(t).(tutorEvent)
	assert.Equal(t, []time.Time{julyFirst.Add(time.Hour)}, updated.groups[0].Slots)

	booked := view.next(t).(bookedEvent)
	assert.Equal(t, "Anna", booked.tutorName)
	assert.Equal(t, "Math", booked.subject)

	student, err := dir.GetUser(context.Background(), "bob-uid")
	require.NoError(t, err)
	require.Len(t, student.UserBookings, 1)
	assert.Equal(t, julyFirst, student.UserBookings[0].Time)
}

func TestTutorDetailPresenter_BookWithoutSession(t *testing.T) {
	dir := seedDirectory()
	view := newRecorder()
	p := NewTutorDetailPresenter(newQueue(t),
		service.NewUserService(dir, zap.NewNop()),
		service.NewBookingService(dir, zap.NewNop()),
		view, zap.NewNop(), nil)

	p.Load(context.Background(), "anna-uid")
	view.next(t)

	p.BookSlot(context.Background(), "anna-uid", "Math", julyFirst)
	err, ok := view.next(t).(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
}

func TestTutorDetailPresenter_BookFromOutdatedCard(t *testing.T) {
	dir := seedDirectory()
	boris := model.NewUser("boris-uid", "boris@example.com")
	boris.Name = "Boris"
	boris.IsTutor = true
	boris.Subjects = []string{"Art"}
	boris.AvailableSlots = map[string][]time.Time{"Art": {julyFirst.Add(48 * time.Hour)}}
	dir.Put(boris)

	view := newRecorder()
	p := NewTutorDetailPresenter(newQueue(t),
		service.NewUserService(dir, zap.NewNop()),
		service.NewBookingService(dir, zap.NewNop()),
		view, zap.NewNop(), session.New("bob-uid", "bob@example.com"))

	p.Load(context.Background(), "anna-uid")
	view.next(t)
	p.Load(context.Background(), "boris-uid")
	loaded := view.next(t).(tutorEvent)
	require.Equal(t, "boris-uid", loaded.tutor.UID)

	// кнопка с карточки Анны после открытия карточки Бориса
	p.BookSlot(context.Background(), "anna-uid", "Math", julyFirst)
	err, ok := view.next(t).(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// время, которого у Бориса нет
	p.BookSlot(context.Background(), "boris-uid", "Art", julyFirst)
	err, ok = view.next(t).(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, model.ErrNotFound)

	ctx := context.Background()
	anna, getErr := dir.GetUser(ctx, "anna-uid")
	require.NoError(t, getErr)
	assert.Len(t, anna.AvailableSlots["Math"], 2)
	assert.Empty(t, anna.SelectedSlots)

	borisAfter, getErr := dir.GetUser(ctx, "boris-uid")
	require.NoError(t, getErr)
	assert.Len(t, borisAfter.AvailableSlots["Art"], 1)
	assert.Empty(t, borisAfter.SelectedSlots)

	bob, getErr := dir.GetUser(ctx, "bob-uid")
	require.NoError(t, getErr)
	assert.Empty(t, bob.UserBookings)
}

func TestTutorDetailPresenter_CardSlotsAreOrdered(t *testing.T) {
	dir := memory.NewDirectory()
	anna := model.NewUser("anna-uid", "anna@example.com")
	anna.Name = "Anna"
	anna.IsTutor = true
	anna.Subjects = []string{"Math"}
	anna.AvailableSlots = map[string][]time.Time{"Math": {julyFirst.Add(24 * time.Hour), julyFirst}}
	dir.Put(anna)

	view := newRecorder()
	p := NewTutorDetailPresenter(newQueue(t),
		service.NewUserService(dir, zap.NewNop()),
		service.NewBookingService(dir, zap.NewNop()),
		view, zap.NewNop(), nil)

	p.Load(context.Background(), "anna-uid")
	loaded := view.next(t).(tutorEvent)
	require.Len(t, loaded.groups, 1)
	assert.Equal(t, []time.Time{julyFirst, julyFirst.Add(24 * time.Hour)}, loaded.groups[0].Slots)
}

func TestSubjectsEditorPresenter_RefetchesAfterChange(t *testing.T) {
	dir := seedDirectory()
	slots := service.NewSlotService(dir, zap.NewNop())
	anna := session.New("anna-uid", "anna@example.com")

	view := newRecorder()
	p := NewSubjectsEditorPresenter(newQueue(t), slots, view, zap.NewNop(), anna)

	p.AddSubject(context.Background(), "Art")
	groups := view.next(t).([]model.SubjectSlotGroup)
	require.Len(t, groups, 2)
	assert.Equal(t, "Art", groups[0].Name)
	assert.Empty(t, groups[0].Slots)

	p.DeleteSlot(context.Background(), "Chemistry", julyFirst)
	err, ok := view.next(t).(error)
	require.True(t, ok)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
