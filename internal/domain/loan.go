package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive = "ACTIVE"
	LoanStatusClosed = "CLOSED"

	// LoanTypeCreditCard is the only supported product code.
	LoanTypeCreditCard = "CC"
)

// Loan represents a revolving-credit loan issued to a user. InterestRate is
// the annual rate in percent, fixed at disbursement. PrincipalBalance is the
// only mutable money field and decreases with principal payments.
type Loan struct {
	LoanID           uuid.UUID       `json:"loan_id" db:"loan_id"`
	UserID           uuid.UUID       `json:"unique_user_id" db:"user_id"`
	LoanType         string          `json:"loan_type" db:"loan_type"`
	LoanAmount       decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TermPeriod       int             `json:"term_period" db:"term_period"`
	DisbursementDate time.Time       `json:"disbursement_date" db:"disbursement_date"`
	PrincipalBalance decimal.Decimal `json:"principal_balance" db:"principal_balance"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type LoanApplicationRequest struct {
	UserID           uuid.UUID       `json:"unique_user_id" validate:"required"`
	LoanType         string          `json:"loan_type" validate:"required"`
	LoanAmount       decimal.Decimal `json:"loan_amount" validate:"required"`
	InterestRate     decimal.Decimal `json:"interest_rate" validate:"required"`
	TermPeriod       int             `json:"term_period" validate:"required,gt=0"`
	DisbursementDate time.Time       `json:"disbursement_date" validate:"required"`
}

type StatementResponse struct {
	LoanID           uuid.UUID       `json:"loan_id"`
	PrincipalBalance decimal.Decimal `json:"principal_balance"`
	NextBillingDate  time.Time       `json:"next_billing_date"`
	Billings         []*Billing      `json:"billings"`
	Payments         []*Payment      `json:"payments"`
}

// AccrualOutcome is one loan's result from a daily accrual run. Skipped marks
// the idempotency hit (an accrual already existed for the run date), which is
// distinct from a failure.
type AccrualOutcome struct {
	LoanID         uuid.UUID       `json:"loan_id"`
	InterestAmount decimal.Decimal `json:"interest_amount"`
	Skipped        bool            `json:"skipped,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// BillingResult describes a billing that was generated for a loan.
type BillingResult struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	BillingID   uuid.UUID       `json:"billing_id"`
	BillingDate time.Time       `json:"billing_date"`
	DueDate     time.Time       `json:"due_date"`
	MinimumDue  decimal.Decimal `json:"minimum_due"`
}

// BillingOutcome is one loan's result from a daily billing run.
type BillingOutcome struct {
	LoanID  uuid.UUID      `json:"loan_id"`
	Billing *BillingResult `json:"billing,omitempty"`
	Skipped bool           `json:"skipped,omitempty"`
	Error   string         `json:"error,omitempty"`
}
