package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightcredit/credit-engine/internal/domain"
)

type billingRepository struct {
	db *sqlx.DB
}

func NewBillingRepository(db *sqlx.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) CreateWithAccruals(ctx context.Context, billing *domain.Billing, accrualIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO billings (billing_id, loan_id, billing_date, due_date, principal_amount, interest_amount, minimum_due, total_due, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.ExecContext(ctx, insert,
		billing.BillingID,
		billing.LoanID,
		billing.BillingDate,
		billing.DueDate,
		billing.PrincipalAmount,
		billing.InterestAmount,
		billing.MinimumDue,
		billing.TotalDue,
		billing.IsPaid,
		billing.CreatedAt,
		billing.UpdatedAt,
	)
	if err != nil {
		return err
	}

	// Each accrual is linked to exactly one billing, ever: the predicate on
	// billing_id IS NULL makes a double-link visible as a row-count mismatch
	// instead of a silent overwrite.
	link := `
		UPDATE interest_accruals
		SET billing_id = $2
		WHERE id = $1 AND billing_id IS NULL
	`

	for _, id := range accrualIDs {
		res, err := tx.ExecContext(ctx, link, id, billing.BillingID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("accrual %s already linked to a billing", id)
		}
	}

	return tx.Commit()
}

func (r *billingRepository) GetLatestByLoanID(ctx context.Context, loanID uuid.UUID) (*domain.Billing, error) {
	query := `
		SELECT billing_id, loan_id, billing_date, due_date, principal_amount, interest_amount, minimum_due, total_due, is_paid, created_at, updated_at
		FROM billings
		WHERE loan_id = $1
		ORDER BY billing_date DESC
		LIMIT 1
	`

	var billing domain.Billing
	err := r.db.GetContext(ctx, &billing, query, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		// never billed yet, a normal state for a fresh loan
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &billing, nil
}

func (r *billingRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Billing, error) {
	query := `
		SELECT billing_id, loan_id, billing_date, due_date, principal_amount, interest_amount, minimum_due, total_due, is_paid, created_at, updated_at
		FROM billings
		WHERE loan_id = $1
		ORDER BY billing_date
	`

	var billings []*domain.Billing
	err := r.db.SelectContext(ctx, &billings, query, loanID)
	if err != nil {
		return nil, err
	}

	return billings, nil
}

func (r *billingRepository) ListUnpaidByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Billing, error) {
	query := `
		SELECT billing_id, loan_id, billing_date, due_date, principal_amount, interest_amount, minimum_due, total_due, is_paid, created_at, updated_at
		FROM billings
		WHERE loan_id = $1 AND is_paid = FALSE
		ORDER BY billing_date
	`

	var billings []*domain.Billing
	err := r.db.SelectContext(ctx, &billings, query, loanID)
	if err != nil {
		return nil, err
	}

	return billings, nil
}

func (r *billingRepository) MarkPaid(ctx context.Context, billingID uuid.UUID) error {
	query := `
		UPDATE billings
		SET is_paid = TRUE, updated_at = $2
		WHERE billing_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, billingID, time.Now())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("billing %s not found", billingID)
	}

	return nil
}
