package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/brightcredit/credit-engine/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateCreditScore(ctx context.Context, userID uuid.UUID, score int) error {
	args := m.Called(ctx, userID, score)
	return args.Error(0)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdatePrincipalBalance(ctx context.Context, loanID uuid.UUID, balance decimal.Decimal) error {
	args := m.Called(ctx, loanID, balance)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, loanID uuid.UUID, status string) error {
	args := m.Called(ctx, loanID, status)
	return args.Error(0)
}

type MockAccrualRepository struct {
	mock.Mock
}

func (m *MockAccrualRepository) Create(ctx context.Context, accrual *domain.InterestAccrual) error {
	args := m.Called(ctx, accrual)
	return args.Error(0)
}

func (m *MockAccrualRepository) ExistsForDate(ctx context.Context, loanID uuid.UUID, date time.Time) (bool, error) {
	args := m.Called(ctx, loanID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccrualRepository) ListUnbilledInWindow(ctx context.Context, loanID uuid.UUID, start, end time.Time) ([]*domain.InterestAccrual, error) {
	args := m.Called(ctx, loanID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InterestAccrual), args.Error(1)
}

func (m *MockAccrualRepository) ListByBillingID(ctx context.Context, billingID uuid.UUID) ([]*domain.InterestAccrual, error) {
	args := m.Called(ctx, billingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InterestAccrual), args.Error(1)
}

type MockBillingRepository struct {
	mock.Mock
}

func (m *MockBillingRepository) CreateWithAccruals(ctx context.Context, billing *domain.Billing, accrualIDs []uuid.UUID) error {
	args := m.Called(ctx, billing, accrualIDs)
	return args.Error(0)
}

func (m *MockBillingRepository) GetLatestByLoanID(ctx context.Context, loanID uuid.UUID) (*domain.Billing, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Billing), args.Error(1)
}

func (m *MockBillingRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Billing, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Billing), args.Error(1)
}

func (m *MockBillingRepository) ListUnpaidByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Billing, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Billing), args.Error(1)
}

func (m *MockBillingRepository) MarkPaid(ctx context.Context, billingID uuid.UUID) error {
	args := m.Called(ctx, billingID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumForBilling(ctx context.Context, billingID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, billingID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// MockFeedReader fakes the external transaction feed.
type MockFeedReader struct {
	mock.Mock
}

func (m *MockFeedReader) NetBalance(ctx context.Context, aadharID string) (decimal.Decimal, error) {
	args := m.Called(ctx, aadharID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
