package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/brightcredit/credit-engine/internal/domain"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (loan_id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, principal_balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.UserID,
		loan.LoanType,
		loan.LoanAmount,
		loan.InterestRate,
		loan.TermPeriod,
		loan.DisbursementDate,
		loan.PrincipalBalance,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT loan_id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, principal_balance, status, created_at, updated_at
		FROM loans
		WHERE loan_id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	query := `
		SELECT loan_id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, principal_balance, status, created_at, updated_at
		FROM loans
		WHERE status = $1
		ORDER BY created_at
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) UpdatePrincipalBalance(ctx context.Context, loanID uuid.UUID, balance decimal.Decimal) error {
	query := `
		UPDATE loans
		SET principal_balance = $2, updated_at = $3
		WHERE loan_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, loanID, balance, time.Now())
	if err != nil {
		return err
	}

	return requireRow(res)
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error {
	query := `
		UPDATE loans
		SET status = $2, updated_at = $3
		WHERE loan_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, loanID, status, time.Now())
	if err != nil {
		return err
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrLoanNotFound
	}
	return nil
}
