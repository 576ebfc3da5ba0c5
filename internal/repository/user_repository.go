package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightcredit/credit-engine/internal/domain"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (unique_user_id, aadhar_id, name, email, annual_income, credit_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.UniqueUserID,
		user.AadharID,
		user.Name,
		user.Email,
		user.AnnualIncome,
		user.CreditScore,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `
		SELECT unique_user_id, aadhar_id, name, email, annual_income, credit_score, created_at, updated_at
		FROM users
		WHERE unique_user_id = $1
	`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdateCreditScore(ctx context.Context, userID uuid.UUID, score int) error {
	query := `
		UPDATE users
		SET credit_score = $2, updated_at = $3
		WHERE unique_user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, score, time.Now())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
