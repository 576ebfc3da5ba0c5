package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightcredit/credit-engine/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique user ID
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateCreditScore sets the user's credit score
	UpdateCreditScore(ctx context.Context, userID uuid.UUID, score int) error
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its loan ID
	GetByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)

	// ListActive retrieves all loans with ACTIVE status
	ListActive(ctx context.Context) ([]*domain.Loan, error)

	// UpdatePrincipalBalance sets the loan's principal balance
	UpdatePrincipalBalance(ctx context.Context, loanID uuid.UUID, balance decimal.Decimal) error

	// UpdateStatus transitions the loan's status
	UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error
}

// AccrualRepository defines the interface for interest accrual operations
type AccrualRepository interface {
	// Create inserts a new accrual row
	Create(ctx context.Context, accrual *domain.InterestAccrual) error

	// ExistsForDate reports whether an accrual exists for (loan, date)
	ExistsForDate(ctx context.Context, loanID uuid.UUID, date time.Time) (bool, error)

	// ListUnbilledInWindow retrieves accruals in [start, end] not yet linked
	// to a billing, ordered by accrual date
	ListUnbilledInWindow(ctx context.Context, loanID uuid.UUID, start, end time.Time) ([]*domain.InterestAccrual, error)

	// ListByBillingID retrieves the accruals folded into a billing
	ListByBillingID(ctx context.Context, billingID uuid.UUID) ([]*domain.InterestAccrual, error)
}

// BillingRepository defines the interface for billing statement operations
type BillingRepository interface {
	// CreateWithAccruals inserts the billing and links the given accrual rows
	// to it in a single transaction
	CreateWithAccruals(ctx context.Context, billing *domain.Billing, accrualIDs []uuid.UUID) error

	// GetLatestByLoanID retrieves the most recent billing for a loan, or
	// (nil, nil) when the loan has never been billed
	GetLatestByLoanID(ctx context.Context, loanID uuid.UUID) (*domain.Billing, error)

	// ListByLoanID retrieves all billings for a loan ordered by billing date
	ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Billing, error)

	// ListUnpaidByLoanID retrieves unpaid billings ordered oldest first
	ListUnpaidByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Billing, error)

	// MarkPaid flags a billing as paid
	MarkPaid(ctx context.Context, billingID uuid.UUID) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// ListByLoanID retrieves all payments for a loan ordered by payment date
	ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error)

	// SumForBilling returns the total amount and interest portion already
	// paid against a billing
	SumForBilling(ctx context.Context, billingID uuid.UUID) (amount, interest decimal.Decimal, err error)
}
