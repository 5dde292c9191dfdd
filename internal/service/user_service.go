package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

// UserService профиль пользователя и каталог репетиторов
type UserService struct {
	dir    repository.Directory
	logger *zap.Logger
}

func NewUserService(dir repository.Directory, logger *zap.Logger) *UserService {
	return &UserService{
		dir:    dir,
		logger: logger,
	}
}

// FetchUser получает полную запись пользователя
func (s *UserService) FetchUser(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.dir.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// FetchTutor получает запись репетитора. Для ученика возвращает ErrNotTutor
func (s *UserService) FetchTutor(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.FetchUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !user.IsTutor {
		return nil, fmt.Errorf("user %s: %w", uid, model.ErrNotTutor)
	}
	return user, nil
}

// FetchTutors получает всех репетиторов, кроме самого пользователя сессии
func (s *UserService) FetchTutors(ctx context.Context, sess *session.Session) ([]*model.User, error) {
	if err := session.Require(sess); err != nil {
		return nil, err
	}

	tutors, err := s.dir.ListTutors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}

	others := make([]*model.User, 0, len(tutors))
	for _, t := range tutors {
		if t.UID != sess.UID {
			others = append(others, t)
		}
	}
	return others, nil
}

// UpdateProfile обновляет профиль пользователя сессии
func (s *UserService) UpdateProfile(ctx context.Context, sess *session.Session, update model.ProfileUpdate) error {
	if err := session.Require(sess); err != nil {
		return err
	}

	update.Name = strings.TrimSpace(update.Name)
	update.About = strings.TrimSpace(update.About)
	if update.Name == "" {
		return fmt.Errorf("name is empty: %w", model.ErrInvalidInput)
	}
	if update.PricePerHour < 0 {
		return fmt.Errorf("negative price: %w", model.ErrInvalidInput)
	}

	if err := s.dir.UpdateProfile(ctx, sess.UID, update); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("Profile updated",
		zap.String("uid", sess.UID),
		zap.Bool("is_tutor", update.IsTutor))

	return nil
}
