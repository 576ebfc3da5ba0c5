package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing represents one billing cycle statement for a loan. Exactly one
// billing exists per cycle; it is never regenerated.
type Billing struct {
	BillingID       uuid.UUID       `json:"billing_id" db:"billing_id"`
	LoanID          uuid.UUID       `json:"loan_id" db:"loan_id"`
	BillingDate     time.Time       `json:"billing_date" db:"billing_date"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	MinimumDue      decimal.Decimal `json:"minimum_due" db:"minimum_due"`
	TotalDue        decimal.Decimal `json:"total_due" db:"total_due"`
	IsPaid          bool            `json:"is_paid" db:"is_paid"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// InterestAccrual records one day's interest for a loan, snapshotting the
// principal balance and daily rate used. At most one accrual exists per
// (loan, accrual date). BillingID is set exactly once, when the accrual is
// folded into a statement; the row is otherwise immutable.
type InterestAccrual struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	LoanID            uuid.UUID       `json:"loan_id" db:"loan_id"`
	AccrualDate       time.Time       `json:"accrual_date" db:"accrual_date"`
	PrincipalBalance  decimal.Decimal `json:"principal_balance" db:"principal_balance"`
	DailyInterestRate decimal.Decimal `json:"daily_interest_rate" db:"daily_interest_rate"`
	InterestAmount    decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	BillingID         *uuid.UUID      `json:"billing_id" db:"billing_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}
