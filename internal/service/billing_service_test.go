package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightcredit/credit-engine/internal/config"
	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/lock"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
	"github.com/brightcredit/credit-engine/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			MinCreditScore:        450,
			MinAnnualIncome:       "150000",
			MaxLoanAmount:         "5000",
			MinInterestRate:       "12",
			MinMonthlyInterest:    "50",
			MaxEMIPercentOfIncome: "20",
			BillingCycleDays:      30,
			DueDateOffsetDays:     15,
		},
	}
}

func unbilledAccrual(loanID uuid.UUID, date time.Time, amount string) *domain.InterestAccrual {
	return &domain.InterestAccrual{
		ID:             uuid.New(),
		LoanID:         loanID,
		AccrualDate:    date,
		InterestAmount: decimal.RequireFromString(amount),
	}
}

func TestGenerateBillingForLoan_FirstCycle(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockBillingRepo := &mocks.MockBillingRepository{}
	mockAccrualRepo := &mocks.MockAccrualRepository{}
	service := NewBillingService(mockLoanRepo, mockBillingRepo, mockAccrualRepo, lock.NewKeyedMutex(time.Second), testConfig())

	loan := activeLoan("12", 5000)
	// disbursed 2024-01-01, so first billing is 2024-01-31, window [01-02, 01-31]
	billingDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	accruals := []*domain.InterestAccrual{
		unbilledAccrual(loan.LoanID, windowStart, "1.65"),
		unbilledAccrual(loan.LoanID, windowStart.AddDate(0, 0, 1), "1.65"),
		unbilledAccrual(loan.LoanID, windowStart.AddDate(0, 0, 2), "1.65"),
	}

	mockLoanRepo.On("GetByID", mock.Anything, loan.LoanID).Return(loan, nil)
	mockBillingRepo.On("GetLatestByLoanID", mock.Anything, loan.LoanID).Return(nil, nil)
	mockAccrualRepo.On("ListUnbilledInWindow", mock.Anything, loan.LoanID, windowStart, billingDate).Return(accruals, nil)
	mockBillingRepo.On("CreateWithAccruals", mock.Anything, mock.MatchedBy(func(b *domain.Billing) bool {
		// interest 4.95, minimum due 150 + 4.95, total due 5004.95
		return b.LoanID == loan.LoanID &&
			b.BillingDate.Equal(billingDate) &&
			b.DueDate.Equal(billingDate.AddDate(0, 0, 15)) &&
			b.PrincipalAmount.Equal(decimal.NewFromInt(5000)) &&
			b.InterestAmount.Equal(decimal.RequireFromString("4.95")) &&
			b.MinimumDue.Equal(decimal.RequireFromString("154.95")) &&
			b.TotalDue.Equal(decimal.RequireFromString("5004.95")) &&
			!b.IsPaid
	}), mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 3
	})).Return(nil)

	result, err := service.GenerateBillingForLoan(context.Background(), loan.LoanID)

	require.NoError(t, err)
	assert.Equal(t, loan.LoanID, result.LoanID)
	assert.Equal(t, billingDate, result.BillingDate)
	assert.Equal(t, billingDate.AddDate(0, 0, 15), result.DueDate)
	assert.True(t, result.MinimumDue.Equal(decimal.RequireFromString("154.95")))

	mockBillingRepo.AssertExpectations(t)
	mockAccrualRepo.AssertExpectations(t)
}

func TestGenerateBillingForLoan_SecondCycleWindowFollowsLastBilling(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockBillingRepo := &mocks.MockBillingRepository{}
	mockAccrualRepo := &mocks.MockAccrualRepository{}
	service := NewBillingService(mockLoanRepo, mockBillingRepo, mockAccrualRepo, lock.NewKeyedMutex(time.Second), testConfig())

	loan := activeLoan("12", 5000)
	lastBillingDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	last := &domain.Billing{
		BillingID:   uuid.New(),
		LoanID:      loan.LoanID,
		BillingDate: lastBillingDate,
	}

	// next cycle: billing 2024-03-01, window [02-01, 03-01]
	billingDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mockLoanRepo.On("GetByID", mock.Anything, loan.LoanID).Return(loan, nil)
	mockBillingRepo.On("GetLatestByLoanID", mock.Anything, loan.LoanID).Return(last, nil)
	mockAccrualRepo.On("ListUnbilledInWindow", mock.Anything, loan.LoanID, windowStart, billingDate).
		Return([]*domain.InterestAccrual{}, nil)
	mockBillingRepo.On("CreateWithAccruals", mock.Anything, mock.MatchedBy(func(b *domain.Billing) bool {
		return b.BillingDate.Equal(billingDate) && b.InterestAmount.IsZero()
	}), mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 0
	})).Return(nil)

	result, err := service.GenerateBillingForLoan(context.Background(), loan.LoanID)

	require.NoError(t, err)
	assert.Equal(t, billingDate, result.BillingDate)
	mockAccrualRepo.AssertExpectations(t)
}

func TestGenerateBillingForLoan_NotActive(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockBillingRepo := &mocks.MockBillingRepository{}
	mockAccrualRepo := &mocks.MockAccrualRepository{}
	service := NewBillingService(mockLoanRepo, mockBillingRepo, mockAccrualRepo, lock.NewKeyedMutex(time.Second), testConfig())

	loan := activeLoan("12", 5000)
	loan.Status = domain.LoanStatusClosed

	mockLoanRepo.On("GetByID", mock.Anything, loan.LoanID).Return(loan, nil)

	result, err := service.GenerateBillingForLoan(context.Background(), loan.LoanID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrLoanNotActive)
	mockBillingRepo.AssertNotCalled(t, "CreateWithAccruals", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunDailyBilling_OnlyBillsLoansDueToday(t *testing.T) {
	mockLoanRepo := &mocks.MockLoanRepository{}
	mockBillingRepo := &mocks.MockBillingRepository{}
	mockAccrualRepo := &mocks.MockAccrualRepository{}
	service := NewBillingService(mockLoanRepo, mockBillingRepo, mockAccrualRepo, lock.NewKeyedMutex(time.Second), testConfig())

	dueLoan := activeLoan("12", 5000)
	notDueLoan := activeLoan("12", 3000)
	notDueLoan.DisbursementDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	runDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mockLoanRepo.On("ListActive", mock.Anything).Return([]*domain.Loan{dueLoan, notDueLoan}, nil)
	mockBillingRepo.On("GetLatestByLoanID", mock.Anything, dueLoan.LoanID).Return(nil, nil)
	mockBillingRepo.On("GetLatestByLoanID", mock.Anything, notDueLoan.LoanID).Return(nil, nil)
	mockLoanRepo.On("GetByID", mock.Anything, dueLoan.LoanID).Return(dueLoan, nil)
	mockAccrualRepo.On("ListUnbilledInWindow", mock.Anything, dueLoan.LoanID, windowStart, runDate).
		Return([]*domain.InterestAccrual{}, nil)
	mockBillingRepo.On("CreateWithAccruals", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	outcomes, err := service.RunDailyBilling(context.Background(), runDate)

	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, dueLoan.LoanID, outcomes[0].LoanID)
	assert.Empty(t, outcomes[0].Error)
	require.NotNil(t, outcomes[0].Billing)
	assert.Equal(t, runDate, outcomes[0].Billing.BillingDate)
}
