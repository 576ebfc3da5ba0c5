package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightcredit/credit-engine/internal/config"
	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/lock"
	"github.com/brightcredit/credit-engine/internal/repository"
	"github.com/brightcredit/credit-engine/pkg/credit"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

type LoanService struct {
	userRepo    repository.UserRepository
	loanRepo    repository.LoanRepository
	billingRepo repository.BillingRepository
	paymentRepo repository.PaymentRepository
	locks       lock.Manager
	config      *config.Config
}

func NewLoanService(
	userRepo repository.UserRepository,
	loanRepo repository.LoanRepository,
	billingRepo repository.BillingRepository,
	paymentRepo repository.PaymentRepository,
	locks lock.Manager,
	config *config.Config,
) *LoanService {
	return &LoanService{
		userRepo:    userRepo,
		loanRepo:    loanRepo,
		billingRepo: billingRepo,
		paymentRepo: paymentRepo,
		locks:       locks,
		config:      config,
	}
}

// ValidateLoanApplication runs the affordability checks as an ordered chain;
// the first failing check decides the rejection reason, so the order below is
// part of the user-facing contract. A nil return means the application is
// accepted. Rejection has no side effects.
func (s *LoanService) ValidateLoanApplication(ctx context.Context, req *domain.LoanApplicationRequest) error {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	if user.CreditScore == nil || *user.CreditScore < s.config.Business.MinCreditScore {
		return apperrors.NewValidationError("credit score is too low or not available")
	}

	if user.AnnualIncome.LessThan(s.config.MinAnnualIncome()) {
		return apperrors.NewValidationError("annual income does not meet minimum requirements")
	}

	if req.LoanAmount.GreaterThan(s.config.MaxLoanAmount()) {
		return apperrors.NewValidationError("loan amount exceeds maximum allowed amount of %s", s.config.MaxLoanAmount())
	}

	if req.InterestRate.LessThan(s.config.MinInterestRate()) {
		return apperrors.NewValidationError("interest rate must be at least %s%%", s.config.MinInterestRate())
	}

	if req.LoanType != domain.LoanTypeCreditCard {
		return apperrors.NewValidationError("only credit card loans are supported at this time")
	}

	estimatedEMI, monthlyInterest := credit.EstimateFirstEMI(req.LoanAmount, req.InterestRate)
	monthlyIncome := user.AnnualIncome.Div(twelve)
	maxAllowedEMI := monthlyIncome.Mul(s.config.MaxEMIPercentOfIncome()).Div(hundred)
	if estimatedEMI.GreaterThan(maxAllowedEMI) {
		return apperrors.NewValidationError("monthly EMI exceeds %s%% of monthly income", s.config.MaxEMIPercentOfIncome())
	}

	if monthlyInterest.LessThan(s.config.MinMonthlyInterest()) {
		return apperrors.NewValidationError("monthly interest must be at least %s", s.config.MinMonthlyInterest())
	}

	return nil
}

// ApplyLoan validates the application and, on acceptance, creates the loan
// with the full amount as its opening principal balance.
func (s *LoanService) ApplyLoan(ctx context.Context, req *domain.LoanApplicationRequest) (*domain.Loan, error) {
	if err := s.ValidateLoanApplication(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now()
	loan := &domain.Loan{
		LoanID:           uuid.New(),
		UserID:           req.UserID,
		LoanType:         req.LoanType,
		LoanAmount:       req.LoanAmount,
		InterestRate:     req.InterestRate,
		TermPeriod:       req.TermPeriod,
		DisbursementDate: credit.DateOnly(req.DisbursementDate),
		PrincipalBalance: req.LoanAmount,
		Status:           domain.LoanStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return loan, nil
}

// MakePayment applies an amount toward a loan under its exclusive lease.
//
// Allocation policy: the payment goes against the oldest unpaid billing,
// interest before principal. The interest portion covers that billing's
// still-unpaid interest; the remainder reduces the principal balance. The
// billing is marked paid once its payments reach total_due. With no unpaid
// billing the whole amount is a principal prepayment. The loan closes when
// the principal balance reaches zero and nothing remains unpaid.
func (s *LoanService) MakePayment(ctx context.Context, loanID uuid.UUID, amount decimal.Decimal, paymentDate time.Time) (*domain.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WrapInvalidAmount(amount.String())
	}

	var payment *domain.Payment

	err := s.locks.WithLoanLock(ctx, loanID, func(ctx context.Context) error {
		loan, err := s.loanRepo.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusActive {
			return apperrors.WrapLoanNotActive(loanID)
		}

		unpaid, err := s.billingRepo.ListUnpaidByLoanID(ctx, loanID)
		if err != nil {
			return err
		}

		var target *domain.Billing
		interestPortion := decimal.Zero
		paidSoFar := decimal.Zero
		if len(unpaid) > 0 {
			target = unpaid[0]

			var interestPaid decimal.Decimal
			paidSoFar, interestPaid, err = s.paymentRepo.SumForBilling(ctx, target.BillingID)
			if err != nil {
				return err
			}

			interestOutstanding := target.InterestAmount.Sub(interestPaid)
			if interestOutstanding.IsNegative() {
				interestOutstanding = decimal.Zero
			}
			interestPortion = decimal.Min(amount, interestOutstanding)
		}

		principalPortion := amount.Sub(interestPortion)
		if principalPortion.GreaterThan(loan.PrincipalBalance) {
			return apperrors.WrapInvalidAmount(amount.String())
		}

		payment = &domain.Payment{
			PaymentID:        uuid.New(),
			LoanID:           loanID,
			PaymentDate:      credit.DateOnly(paymentDate),
			Amount:           amount,
			PrincipalPayment: principalPortion,
			InterestPayment:  interestPortion,
			CreatedAt:        time.Now(),
		}
		if target != nil {
			payment.BillingID = &target.BillingID
		}

		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		newBalance := loan.PrincipalBalance.Sub(principalPortion)
		if err := s.loanRepo.UpdatePrincipalBalance(ctx, loanID, newBalance); err != nil {
			return err
		}

		remainingUnpaid := len(unpaid)
		if target != nil && paidSoFar.Add(amount).GreaterThanOrEqual(target.TotalDue) {
			if err := s.billingRepo.MarkPaid(ctx, target.BillingID); err != nil {
				return err
			}
			remainingUnpaid--
		}

		if newBalance.IsZero() && remainingUnpaid == 0 {
			if err := s.loanRepo.UpdateStatus(ctx, loanID, domain.LoanStatusClosed); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// GetStatement returns the loan's billing history, payments, current
// principal balance and next billing date.
func (s *LoanService) GetStatement(ctx context.Context, loanID uuid.UUID) (*domain.StatementResponse, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	billings, err := s.billingRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	var lastDate *time.Time
	if len(billings) > 0 {
		lastDate = &billings[len(billings)-1].BillingDate
	}

	return &domain.StatementResponse{
		LoanID:           loanID,
		PrincipalBalance: loan.PrincipalBalance,
		NextBillingDate:  credit.NextBillingDate(lastDate, loan.DisbursementDate, s.config.Business.BillingCycleDays),
		Billings:         billings,
		Payments:         payments,
	}, nil
}
