package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightcredit/credit-engine/internal/config"
	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/lock"
	"github.com/brightcredit/credit-engine/internal/repository"
	"github.com/brightcredit/credit-engine/pkg/credit"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
	"github.com/brightcredit/credit-engine/pkg/logger"
)

type BillingService struct {
	loanRepo    repository.LoanRepository
	billingRepo repository.BillingRepository
	accrualRepo repository.AccrualRepository
	locks       lock.Manager
	config      *config.Config
}

func NewBillingService(
	loanRepo repository.LoanRepository,
	billingRepo repository.BillingRepository,
	accrualRepo repository.AccrualRepository,
	locks lock.Manager,
	config *config.Config,
) *BillingService {
	return &BillingService{
		loanRepo:    loanRepo,
		billingRepo: billingRepo,
		accrualRepo: accrualRepo,
		locks:       locks,
		config:      config,
	}
}

// RunDailyBilling generates statements for every active loan whose next
// billing date equals runDate. Loans not yet due are left out of the result;
// loans that turn out to be inactive under the lock are reported as no-op
// skips. One loan's failure never halts the rest.
func (s *BillingService) RunDailyBilling(ctx context.Context, runDate time.Time) ([]domain.BillingOutcome, error) {
	runDate = credit.DateOnly(runDate)

	loans, err := s.loanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var outcomes []domain.BillingOutcome
	for _, loan := range loans {
		last, err := s.billingRepo.GetLatestByLoanID(ctx, loan.LoanID)
		if err != nil {
			outcomes = append(outcomes, domain.BillingOutcome{LoanID: loan.LoanID, Error: err.Error()})
			continue
		}

		var lastDate *time.Time
		if last != nil {
			lastDate = &last.BillingDate
		}
		next := credit.NextBillingDate(lastDate, loan.DisbursementDate, s.config.Business.BillingCycleDays)
		if !credit.DateOnly(next).Equal(runDate) {
			continue
		}

		outcome := domain.BillingOutcome{LoanID: loan.LoanID}
		result, err := s.GenerateBillingForLoan(ctx, loan.LoanID)
		switch {
		case errors.Is(err, apperrors.ErrLoanNotActive):
			outcome.Skipped = true
		case err != nil:
			outcome.Error = err.Error()
		default:
			outcome.Billing = result
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// GenerateBillingForLoan produces the loan's next statement: it folds every
// unbilled accrual in the cycle window into one billing and links those
// accruals to it, all under the loan's exclusive lease so a duplicate trigger
// or retry cannot bill the same cycle twice.
func (s *BillingService) GenerateBillingForLoan(ctx context.Context, loanID uuid.UUID) (*domain.BillingResult, error) {
	var result *domain.BillingResult

	err := s.locks.WithLoanLock(ctx, loanID, func(ctx context.Context) error {
		loan, err := s.loanRepo.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusActive {
			return apperrors.WrapLoanNotActive(loanID)
		}

		last, err := s.billingRepo.GetLatestByLoanID(ctx, loanID)
		if err != nil {
			return err
		}

		var lastDate *time.Time
		if last != nil {
			lastDate = &last.BillingDate
		}

		billingDate := credit.DateOnly(credit.NextBillingDate(lastDate, loan.DisbursementDate, s.config.Business.BillingCycleDays))
		dueDate := credit.DueDate(billingDate, s.config.Business.DueDateOffsetDays)
		windowStart := credit.DateOnly(credit.AccrualWindowStart(lastDate, loan.DisbursementDate))

		accruals, err := s.accrualRepo.ListUnbilledInWindow(ctx, loanID, windowStart, billingDate)
		if err != nil {
			return err
		}

		totalInterest := decimal.Zero
		accrualIDs := make([]uuid.UUID, 0, len(accruals))
		for _, accrual := range accruals {
			totalInterest = totalInterest.Add(accrual.InterestAmount)
			accrualIDs = append(accrualIDs, accrual.ID)
		}

		now := time.Now()
		billing := &domain.Billing{
			BillingID:       uuid.New(),
			LoanID:          loanID,
			BillingDate:     billingDate,
			DueDate:         dueDate,
			PrincipalAmount: loan.PrincipalBalance,
			InterestAmount:  totalInterest,
			MinimumDue:      credit.MinimumDue(loan.PrincipalBalance, totalInterest),
			TotalDue:        loan.PrincipalBalance.Add(totalInterest),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := s.billingRepo.CreateWithAccruals(ctx, billing, accrualIDs); err != nil {
			return err
		}

		logger.Log.Info("billing generated",
			logger.String("loan_id", loanID.String()),
			logger.String("billing_id", billing.BillingID.String()),
			logger.String("billing_date", billingDate.Format("2006-01-02")),
		)

		result = &domain.BillingResult{
			LoanID:      loanID,
			BillingID:   billing.BillingID,
			BillingDate: billingDate,
			DueDate:     dueDate,
			MinimumDue:  billing.MinimumDue,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
