package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightcredit/credit-engine/internal/domain"
)

type accrualRepository struct {
	db *sqlx.DB
}

func NewAccrualRepository(db *sqlx.DB) AccrualRepository {
	return &accrualRepository{db: db}
}

func (r *accrualRepository) Create(ctx context.Context, accrual *domain.InterestAccrual) error {
	// interest_accruals carries a UNIQUE (loan_id, accrual_date) constraint;
	// the service checks ExistsForDate under the loan lock before inserting,
	// and the constraint backstops that check.
	query := `
		INSERT INTO interest_accruals (id, loan_id, accrual_date, principal_balance, daily_interest_rate, interest_amount, billing_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		accrual.ID,
		accrual.LoanID,
		accrual.AccrualDate,
		accrual.PrincipalBalance,
		accrual.DailyInterestRate,
		accrual.InterestAmount,
		accrual.BillingID,
		accrual.CreatedAt,
	)

	return err
}

func (r *accrualRepository) ExistsForDate(ctx context.Context, loanID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM interest_accruals
			WHERE loan_id = $1 AND accrual_date = $2
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, loanID, date)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *accrualRepository) ListUnbilledInWindow(ctx context.Context, loanID uuid.UUID, start, end time.Time) ([]*domain.InterestAccrual, error) {
	query := `
		SELECT id, loan_id, accrual_date, principal_balance, daily_interest_rate, interest_amount, billing_id, created_at
		FROM interest_accruals
		WHERE loan_id = $1 AND accrual_date >= $2 AND accrual_date <= $3 AND billing_id IS NULL
		ORDER BY accrual_date
	`

	var accruals []*domain.InterestAccrual
	err := r.db.SelectContext(ctx, &accruals, query, loanID, start, end)
	if err != nil {
		return nil, err
	}

	return accruals, nil
}

func (r *accrualRepository) ListByBillingID(ctx context.Context, billingID uuid.UUID) ([]*domain.InterestAccrual, error) {
	query := `
		SELECT id, loan_id, accrual_date, principal_balance, daily_interest_rate, interest_amount, billing_id, created_at
		FROM interest_accruals
		WHERE billing_id = $1
		ORDER BY accrual_date
	`

	var accruals []*domain.InterestAccrual
	err := r.db.SelectContext(ctx, &accruals, query, billingID)
	if err != nil {
		return nil, err
	}

	return accruals, nil
}
