package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a registered borrower. CreditScore stays nil until the
// scoring batch has run for the user.
type User struct {
	UniqueUserID uuid.UUID       `json:"unique_user_id" db:"unique_user_id"`
	AadharID     string          `json:"aadhar_id" db:"aadhar_id"`
	Name         string          `json:"name" db:"name"`
	Email        string          `json:"email" db:"email"`
	AnnualIncome decimal.Decimal `json:"annual_income" db:"annual_income"`
	CreditScore  *int            `json:"credit_score" db:"credit_score"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

type RegisterUserRequest struct {
	AadharID     string          `json:"aadhar_id" validate:"required,len=12,numeric"`
	Name         string          `json:"name" validate:"required,max=100"`
	Email        string          `json:"email" validate:"required,email"`
	AnnualIncome decimal.Decimal `json:"annual_income" validate:"required"`
}

type CreditScoreResponse struct {
	UserID      uuid.UUID `json:"unique_user_id"`
	CreditScore int       `json:"credit_score"`
}
