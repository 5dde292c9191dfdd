package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/metrics"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

// SlotService управляет предметами и свободными слотами репетитора
type SlotService struct {
	dir    repository.Directory
	logger *zap.Logger
}

func NewSlotService(dir repository.Directory, logger *zap.Logger) *SlotService {
	return &SlotService{
		dir:    dir,
		logger: logger,
	}
}

// FetchSlots возвращает предметы репетитора со слотами, по имени предмета
func (s *SlotService) FetchSlots(ctx context.Context, tutorID string) ([]model.SubjectSlotGroup, error) {
	user, err := s.dir.GetUser(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	slots := model.CloneSlots(user.AvailableSlots)
	if slots == nil {
		slots = map[string][]time.Time{}
	}
	// Предмет без слотов всё равно показывается
	for _, name := range user.Subjects {
		if _, ok := slots[name]; !ok {
			slots[name] = []time.Time{}
		}
	}

	return model.GroupSlots(slots), nil
}

// AddSubject добавляет предмет с пустым списком слотов. Существующий предмет не меняется
func (s *SlotService) AddSubject(ctx context.Context, sess *session.Session, name string) error {
	if err := session.Require(sess); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("subject name is empty: %w", model.ErrInvalidInput)
	}

	err := s.dir.UpdateSubjects(ctx, sess.UID, func(subjects []string, slots map[string][]time.Time) ([]string, map[string][]time.Time, error) {
		if slots == nil {
			slots = map[string][]time.Time{}
		}
		if !contains(subjects, name) {
			subjects = append(subjects, name)
		}
		if _, ok := slots[name]; !ok {
			slots[name] = []time.Time{}
		}
		return subjects, slots, nil
	})
	if err != nil {
		return fmt.Errorf("add subject: %w", err)
	}

	metrics.SlotMutations.WithLabelValues("add_subject").Inc()
	s.logger.Info("Subject added",
		zap.String("tutor_id", sess.UID),
		zap.String("subject", name))

	return nil
}

// DeleteSubject удаляет предмет вместе со всеми его слотами
func (s *SlotService) DeleteSubject(ctx context.Context, sess *session.Session, name string) error {
	if err := session.Require(sess); err != nil {
		return err
	}

	err := s.dir.UpdateSubjects(ctx, sess.UID, func(subjects []string, slots map[string][]time.Time) ([]string, map[string][]time.Time, error) {
		_, inSlots := slots[name]
		if !contains(subjects, name) && !inSlots {
			return nil, nil, fmt.Errorf("subject %q: %w", name, model.ErrNotFound)
		}

		kept := make([]string, 0, len(subjects))
		for _, subject := range subjects {
			if subject != name {
				kept = append(kept, subject)
			}
		}
		delete(slots, name)
		return kept, slots, nil
	})
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	metrics.SlotMutations.WithLabelValues("delete_subject").Inc()
	s.logger.Info("Subject deleted",
		zap.String("tutor_id", sess.UID),
		zap.String("subject", name))

	return nil
}

// AddSlot добавляет время в слоты предмета. Повторное добавление ничего не меняет
func (s *SlotService) AddSlot(ctx context.Context, sess *session.Session, subject string, t time.Time) error {
	if err := s.checkSubject(ctx, sess, subject); err != nil {
		return err
	}

	t = model.NormalizeSlot(t)
	if err := s.dir.AddSlot(ctx, sess.UID, subject, t); err != nil {
		return fmt.Errorf("add slot: %w", err)
	}

	metrics.SlotMutations.WithLabelValues("add_slot").Inc()
	s.logger.Info("Slot added",
		zap.String("tutor_id", sess.UID),
		zap.String("subject", subject),
		zap.Time("time", t))

	return nil
}

// DeleteSlot убирает время из слотов предмета. Отсутствующее время не ошибка
func (s *SlotService) DeleteSlot(ctx context.Context, sess *session.Session, subject string, t time.Time) error {
	if err := s.checkSubject(ctx, sess, subject); err != nil {
		return err
	}

	t = model.NormalizeSlot(t)
	if err := s.dir.RemoveSlot(ctx, sess.UID, subject, t); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	metrics.SlotMutations.WithLabelValues("delete_slot").Inc()
	s.logger.Info("Slot deleted",
		zap.String("tutor_id", sess.UID),
		zap.String("subject", subject),
		zap.Time("time", t))

	return nil
}

// PruneExpired убирает из расписаний всех репетиторов слоты раньше now.
// Ошибка по одному слоту не останавливает обход
func (s *SlotService) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	tutors, err := s.dir.ListTutors(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tutors: %w", err)
	}

	var (
		removed int
		errs    []error
	)
	for _, tutor := range tutors {
		for subject, times := range tutor.AvailableSlots {
			for _, t := range times {
				if !t.Before(now) {
					continue
				}
				if err := s.dir.RemoveSlot(ctx, tutor.UID, subject, t); err != nil {
					errs = append(errs, fmt.Errorf("remove slot of %s: %w", tutor.UID, err))
					continue
				}
				removed++
			}
		}
	}

	if removed > 0 {
		metrics.SlotMutations.WithLabelValues("prune").Add(float64(removed))
	}
	return removed, errors.Join(errs...)
}

// checkSubject проверяет сессию и наличие предмета у пользователя
func (s *SlotService) checkSubject(ctx context.Context, sess *session.Session, subject string) error {
	if err := session.Require(sess); err != nil {
		return err
	}

	user, err := s.dir.GetUser(ctx, sess.UID)
	if err != nil {
		return fmt.Errorf("get tutor: %w", err)
	}
	if !user.HasSubject(subject) {
		return fmt.Errorf("subject %q: %w", subject, model.ErrNotFound)
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
