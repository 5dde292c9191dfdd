package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

type AccountRepository struct {
	q querier
}

func NewAccountRepository(q querier) *AccountRepository {
	return &AccountRepository{q: q}
}

// Create сохраняет учётные данные
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (uid, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query, account.UID, account.Email, account.PasswordHash).Scan(&account.CreatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

// GetByEmail получает учётные данные по email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT uid, email, password_hash, created_at
		FROM accounts
		WHERE email = $1
	`

	var account model.Account
	err := r.q.QueryRow(ctx, query, email).Scan(
		&account.UID,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return &account, nil
}
