package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/repository"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthService struct {
	dir    repository.Directory
	logger *zap.Logger
}

func NewAuthService(dir repository.Directory, logger *zap.Logger) *AuthService {
	return &AuthService{
		dir:    dir,
		logger: logger,
	}
}

// SignUp регистрирует аккаунт и создаёт запись пользователя с именем-заглушкой
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q: %w", email, model.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password shorter than %d: %w", minPasswordLength, model.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	uid := uuid.NewString()
	user := model.NewUser(uid, email)
	account := &model.Account{
		UID:          uid,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    user.CreatedAt,
	}

	if err := s.dir.CreateAccount(ctx, account, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("New user registered",
		zap.String("uid", uid),
		zap.String("email", email))

	return session.New(uid, email), nil
}

// SignIn проверяет пароль и открывает сессию
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	email = normalizeEmail(email)

	account, err := s.dir.GetAccountByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	s.logger.Info("User signed in", zap.String("uid", account.UID))

	return session.New(account.UID, account.Email), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
