package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/brightcredit/credit-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (payment_id, loan_id, billing_id, payment_date, amount, principal_payment, interest_payment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.PaymentID,
		payment.LoanID,
		payment.BillingID,
		payment.PaymentDate,
		payment.Amount,
		payment.PrincipalPayment,
		payment.InterestPayment,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT payment_id, loan_id, billing_id, payment_date, amount, principal_payment, interest_payment, created_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY payment_date
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) SumForBilling(ctx context.Context, billingID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(interest_payment), 0)
		FROM payments
		WHERE billing_id = $1
	`

	var amount, interest decimal.Decimal
	err := r.db.QueryRowxContext(ctx, query, billingID).Scan(&amount, &interest)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return amount, interest, nil
}
