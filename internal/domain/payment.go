package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records an amount applied toward a loan, split into principal and
// interest portions that sum to Amount. BillingID is nil for payments made
// before the first statement (pure principal prepayments).
type Payment struct {
	PaymentID        uuid.UUID       `json:"payment_id" db:"payment_id"`
	LoanID           uuid.UUID       `json:"loan_id" db:"loan_id"`
	BillingID        *uuid.UUID      `json:"billing_id" db:"billing_id"`
	PaymentDate      time.Time       `json:"payment_date" db:"payment_date"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	PrincipalPayment decimal.Decimal `json:"principal_payment" db:"principal_payment"`
	InterestPayment  decimal.Decimal `json:"interest_payment" db:"interest_payment"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}
