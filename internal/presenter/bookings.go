package presenter

import (
	"context"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/metrics"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"go.uber.org/zap"
)

// State состояние экрана записей
type State int

const (
	StateIdle State = iota
	StateLoading
	StateDisplayingRemote
	StateDisplayingCached
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDisplayingRemote:
		return "displaying-remote"
	case StateDisplayingCached:
		return "displaying-cached-fallback"
	default:
		return "idle"
	}
}

// Mode чьими глазами показываются записи
type Mode int

const (
	ModeStudent Mode = iota
	ModeTutor
)

func (m Mode) String() string {
	if m == ModeTutor {
		return "tutor"
	}
	return "student"
}

// BookingsState то, что видит пользователь
type BookingsState struct {
	State           State
	Mode            Mode
	IsTutor         bool
	StudentBookings []model.StudentBooking
	TutorBookings   []model.TutorBooking
}

// BookingsView отображение экрана записей
type BookingsView interface {
	ShowLoading()
	ShowBookings(state BookingsState)
	ShowError(err error)
}

// BookingsPresenter загружает записи из каталога, а при ошибке показывает
// последний сохранённый снимок
type BookingsPresenter struct {
	exec    Executor
	fetcher OverviewFetcher
	cache   cache.Store
	view    BookingsView
	logger  *zap.Logger
	userID  string

	// меняются только в задачах exec
	state   State
	mode    Mode
	isTutor bool
	student []model.StudentBooking
	tutor   []model.TutorBooking
}

func NewBookingsPresenter(
	exec Executor,
	fetcher OverviewFetcher,
	store cache.Store,
	view BookingsView,
	logger *zap.Logger,
	userID string,
) *BookingsPresenter {
	return &BookingsPresenter{
		exec:    exec,
		fetcher: fetcher,
		cache:   store,
		view:    view,
		logger:  logger,
		userID:  userID,
	}
}

// ViewDidLoad запускает загрузку записей
func (p *BookingsPresenter) ViewDidLoad(ctx context.Context) {
	p.exec.Post(func() {
		p.state = StateLoading
		p.view.ShowLoading()
		go p.fetch(ctx)
	})
}

// SetMode переключает режим над уже загруженными данными, без обращения к сети
func (p *BookingsPresenter) SetMode(mode Mode) {
	p.exec.Post(func() {
		p.mode = mode
		if p.state == StateDisplayingRemote || p.state == StateDisplayingCached {
			p.view.ShowBookings(p.snapshot())
		}
	})
}

func (p *BookingsPresenter) fetch(ctx context.Context) {
	overview, err := p.fetcher.FetchBookingOverview(ctx, p.userID)
	if err == nil {
		if saveErr := p.cache.Save(ctx, p.userID, cache.Snapshot{
			IsTutor:         overview.IsTutor,
			StudentBookings: overview.StudentBookings,
			TutorBookings:   overview.TutorBookings,
		}); saveErr != nil {
			p.logger.Warn("Failed to save bookings cache",
				zap.String("user_id", p.userID),
				zap.Error(saveErr))
		}

		p.exec.Post(func() {
			p.apply(StateDisplayingRemote, overview.IsTutor, overview.StudentBookings, overview.TutorBookings)
		})
		return
	}

	p.logger.Error("Failed to fetch bookings",
		zap.String("user_id", p.userID),
		zap.Error(err))
	p.exec.Post(func() { p.view.ShowError(err) })

	snapshot, loadErr := p.cache.Load(ctx, p.userID)
	if loadErr != nil {
		p.logger.Warn("Failed to load bookings cache",
			zap.String("user_id", p.userID),
			zap.Error(loadErr))
		snapshot = nil
	}

	if snapshot == nil {
		metrics.CacheFallbacks.WithLabelValues(metrics.ResultMiss).Inc()
		p.exec.Post(func() {
			p.apply(StateDisplayingRemote, false, nil, nil)
		})
		return
	}

	metrics.CacheFallbacks.WithLabelValues(metrics.ResultHit).Inc()
	p.exec.Post(func() {
		p.apply(StateDisplayingCached, snapshot.IsTutor, snapshot.StudentBookings, snapshot.TutorBookings)
	})
}

// apply выполняется в exec
func (p *BookingsPresenter) apply(state State, isTutor bool, student []model.StudentBooking, tutor []model.TutorBooking) {
	p.state = state
	p.isTutor = isTutor
	p.student = append([]model.StudentBooking{}, student...)
	p.tutor = append([]model.TutorBooking{}, tutor...)

	p.mode = ModeStudent
	if isTutor {
		p.mode = ModeTutor
	}

	p.view.ShowBookings(p.snapshot())
}

func (p *BookingsPresenter) snapshot() BookingsState {
	return BookingsState{
		State:           p.state,
		Mode:            p.mode,
		IsTutor:         p.isTutor,
		StudentBookings: append([]model.StudentBooking{}, p.student...),
		TutorBookings:   append([]model.TutorBooking{}, p.tutor...),
	}
}
