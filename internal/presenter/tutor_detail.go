package presenter

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

// TutorDetailView отображение карточки репетитора
type TutorDetailView interface {
	ShowTutor(tutor *model.User, groups []model.SubjectSlotGroup)
	ShowBooked(tutorName, subject string, t time.Time)
	ShowError(err error)
}

// TutorDetailPresenter карточка репетитора с записью на свободный слот
type TutorDetailPresenter struct {
	exec    Executor
	tutors  TutorFetcher
	booker  SlotBooker
	view    TutorDetailView
	logger  *zap.Logger
	session *session.Session

	tutor *model.User
}

func NewTutorDetailPresenter(
	exec Executor,
	tutors TutorFetcher,
	booker SlotBooker,
	view TutorDetailView,
	logger *zap.Logger,
	sess *session.Session,
) *TutorDetailPresenter {
	return &TutorDetailPresenter{
		exec:    exec,
		tutors:  tutors,
		booker:  booker,
		view:    view,
		logger:  logger,
		session: sess,
	}
}

// Load получает репетитора и показывает его слоты
func (p *TutorDetailPresenter) Load(ctx context.Context, tutorID string) {
	go func() {
		tutor, err := p.tutors.FetchTutor(ctx, tutorID)
		p.exec.Post(func() {
			if err != nil {
				p.view.ShowError(err)
				return
			}
			p.tutor = tutor
			p.view.ShowTutor(tutor, model.GroupSlots(tutor.AvailableSlots))
		})
	}()
}

// BookSlot бронирует слот репетитора с карточки tutorID. Если с тех пор
// открыта карточка другого репетитора или слота на ней нет, запись
// отклоняется. После успеха слот убирается из локальной копии
func (p *TutorDetailPresenter) BookSlot(ctx context.Context, tutorID, subject string, t time.Time) {
	p.exec.Post(func() {
		if p.tutor == nil || p.tutor.UID != tutorID {
			p.view.ShowError(fmt.Errorf("card of tutor %s is outdated: %w", tutorID, model.ErrNotFound))
			return
		}
		if !hasSlot(p.tutor.AvailableSlots[subject], t) {
			p.view.ShowError(fmt.Errorf("slot %s %s is not offered: %w", subject, t, model.ErrNotFound))
			return
		}
		tutorName := p.tutor.Name

		go func() {
			err := p.booker.BookSlot(ctx, p.session, tutorID, tutorName, subject, t)
			p.exec.Post(func() {
				if err != nil {
					p.logger.Error("Failed to book slot",
						zap.String("tutor_id", tutorID),
						zap.String("subject", subject),
						zap.Error(err))
					p.view.ShowError(err)
					return
				}
				if p.tutor != nil && p.tutor.UID == tutorID && p.tutor.AvailableSlots != nil {
					p.tutor.AvailableSlots[subject] = model.RemoveSlot(p.tutor.AvailableSlots[subject], t)
					p.view.ShowTutor(p.tutor, model.GroupSlots(p.tutor.AvailableSlots))
				}
				p.view.ShowBooked(tutorName, subject, t)
			})
		}()
	})
}

func hasSlot(times []time.Time, t time.Time) bool {
	for _, existing := range times {
		if model.SameSlot(existing, t) {
			return true
		}
	}
	return false
}
