package postgres

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_connect/internal/model"
)

type UserRepository struct {
	q querier
}

func NewUserRepository(q querier) *UserRepository {
	return &UserRepository{q: q}
}

const userColumns = `uid, email, name, price_per_hour, is_tutor, subjects, about, created_at`

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (uid, email, name, price_per_hour, is_tutor, subjects, about)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	subjects := user.Subjects
	if subjects == nil {
		subjects = []string{}
	}

	err := r.q.QueryRow(
		ctx, query,
		user.UID,
		user.Email,
		user.Name,
		user.PricePerHour,
		user.IsTutor,
		subjects,
		user.About,
	).Scan(&user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByUID получает пользователя по uid. forUpdate блокирует строку до конца транзакции
func (r *UserRepository) GetByUID(ctx context.Context, uid string, forUpdate bool) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var user model.User
	err := r.q.QueryRow(ctx, query, uid).Scan(
		&user.UID,
		&user.Email,
		&user.Name,
		&user.PricePerHour,
		&user.IsTutor,
		&user.Subjects,
		&user.About,
		&user.CreatedAt,
	)

	if err != nil {
		if IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by uid: %w", err)
	}

	return &user, nil
}

// GetTutors получает всех репетиторов
func (r *UserRepository) GetTutors(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_tutor = true
		ORDER BY name
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get tutors: %w", err)
	}
	defer rows.Close()

	var tutors []*model.User
	for rows.Next() {
		var tutor model.User
		err := rows.Scan(
			&tutor.UID,
			&tutor.Email,
			&tutor.Name,
			&tutor.PricePerHour,
			&tutor.IsTutor,
			&tutor.Subjects,
			&tutor.About,
			&tutor.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tutor: %w", err)
		}
		tutors = append(tutors, &tutor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tutors: %w", err)
	}

	return tutors, nil
}

// UpdateProfile обновляет данные профиля
func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) error {
	query := `
		UPDATE users
		SET name = $1, price_per_hour = $2, about = $3, is_tutor = $4
		WHERE uid = $5
	`

	result, err := r.q.Exec(ctx, query, update.Name, update.PricePerHour, update.About, update.IsTutor, uid)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}

	return nil
}

// SetSubjects перезаписывает список предметов
func (r *UserRepository) SetSubjects(ctx context.Context, uid string, subjects []string) error {
	if subjects == nil {
		subjects = []string{}
	}

	result, err := r.q.Exec(ctx, `UPDATE users SET subjects = $1 WHERE uid = $2`, subjects, uid)
	if err != nil {
		return fmt.Errorf("set subjects: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", uid, model.ErrNotFound)
	}

	return nil
}
