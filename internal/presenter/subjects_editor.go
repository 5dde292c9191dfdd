package presenter

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

// SubjectsView отображение редактора предметов
type SubjectsView interface {
	ShowSubjects(groups []model.SubjectSlotGroup)
	ShowError(err error)
}

// SubjectsEditorPresenter редактирует предметы и слоты пользователя сессии.
// После каждого удачного изменения группы перечитываются
type SubjectsEditorPresenter struct {
	exec    Executor
	slots   SlotEditor
	view    SubjectsView
	logger  *zap.Logger
	session *session.Session
}

func NewSubjectsEditorPresenter(
	exec Executor,
	slots SlotEditor,
	view SubjectsView,
	logger *zap.Logger,
	sess *session.Session,
) *SubjectsEditorPresenter {
	return &SubjectsEditorPresenter{
		exec:    exec,
		slots:   slots,
		view:    view,
		logger:  logger,
		session: sess,
	}
}

// Load показывает текущие предметы
func (p *SubjectsEditorPresenter) Load(ctx context.Context) {
	p.mutate(ctx, "load", func() error { return nil })
}

func (p *SubjectsEditorPresenter) AddSubject(ctx context.Context, name string) {
	p.mutate(ctx, "add_subject", func() error {
		return p.slots.AddSubject(ctx, p.session, name)
	})
}

func (p *SubjectsEditorPresenter) DeleteSubject(ctx context.Context, name string) {
	p.mutate(ctx, "delete_subject", func() error {
		return p.slots.DeleteSubject(ctx, p.session, name)
	})
}

func (p *SubjectsEditorPresenter) AddSlot(ctx context.Context, subject string, t time.Time) {
	p.mutate(ctx, "add_slot", func() error {
		return p.slots.AddSlot(ctx, p.session, subject, t)
	})
}

func (p *SubjectsEditorPresenter) DeleteSlot(ctx context.Context, subject string, t time.Time) {
	p.mutate(ctx, "delete_slot", func() error {
		return p.slots.DeleteSlot(ctx, p.session, subject, t)
	})
}

// mutate выполняет изменение и перечитывает группы вне exec, результат
// применяется в exec
func (p *SubjectsEditorPresenter) mutate(ctx context.Context, op string, change func() error) {
	go func() {
		var (
			groups []model.SubjectSlotGroup
			err    error
		)
		if p.session == nil {
			err = model.ErrNotAuthenticated
		} else if err = change(); err == nil {
			groups, err = p.slots.FetchSlots(ctx, p.session.UID)
		}

		p.exec.Post(func() {
			if err != nil {
				p.logger.Error("Subjects editor operation failed",
					zap.String("op", op),
					zap.Error(err))
				p.view.ShowError(err)
				return
			}
			p.view.ShowSubjects(groups)
		})
	}()
}
