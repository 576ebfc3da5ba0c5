package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/lock"
	"github.com/brightcredit/credit-engine/internal/repository"
	"github.com/brightcredit/credit-engine/pkg/credit"
	"github.com/brightcredit/credit-engine/pkg/logger"
)

type AccrualService struct {
	loanRepo    repository.LoanRepository
	accrualRepo repository.AccrualRepository
	locks       lock.Manager
}

func NewAccrualService(
	loanRepo repository.LoanRepository,
	accrualRepo repository.AccrualRepository,
	locks lock.Manager,
) *AccrualService {
	return &AccrualService{
		loanRepo:    loanRepo,
		accrualRepo: accrualRepo,
		locks:       locks,
	}
}

// AccrueDailyInterest records one day's interest for every active loan. A
// loan that already has an accrual for runDate is reported as a skip, which
// makes retried or overlapping runs harmless. One loan's failure never halts
// the rest; the returned outcomes follow iteration order. The error return
// covers only the initial loan listing.
func (s *AccrualService) AccrueDailyInterest(ctx context.Context, runDate time.Time) ([]domain.AccrualOutcome, error) {
	runDate = credit.DateOnly(runDate)

	loans, err := s.loanRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	outcomes := make([]domain.AccrualOutcome, 0, len(loans))
	for _, loan := range loans {
		outcomes = append(outcomes, s.accrueForLoan(ctx, loan.LoanID, runDate))
	}

	return outcomes, nil
}

func (s *AccrualService) accrueForLoan(ctx context.Context, loanID uuid.UUID, runDate time.Time) domain.AccrualOutcome {
	outcome := domain.AccrualOutcome{LoanID: loanID}

	err := s.locks.WithLoanLock(ctx, loanID, func(ctx context.Context) error {
		exists, err := s.accrualRepo.ExistsForDate(ctx, loanID, runDate)
		if err != nil {
			return err
		}
		if exists {
			outcome.Skipped = true
			return nil
		}

		// Re-read under the lock: the balance may have moved between the
		// listing and lock acquisition.
		loan, err := s.loanRepo.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusActive {
			outcome.Skipped = true
			return nil
		}

		dailyRate := credit.DailyRate(loan.InterestRate)
		interest := credit.DailyInterest(loan.PrincipalBalance, dailyRate)

		accrual := &domain.InterestAccrual{
			ID:                uuid.New(),
			LoanID:            loanID,
			AccrualDate:       runDate,
			PrincipalBalance:  loan.PrincipalBalance,
			DailyInterestRate: dailyRate,
			InterestAmount:    interest,
			CreatedAt:         time.Now(),
		}
		if err := s.accrualRepo.Create(ctx, accrual); err != nil {
			return err
		}

		outcome.InterestAmount = interest
		return nil
	})
	if err != nil {
		logger.Log.Error("accruing interest",
			logger.String("loan_id", loanID.String()),
			logger.Error(err),
		)
		outcome.Error = err.Error()
	}

	return outcome
}
