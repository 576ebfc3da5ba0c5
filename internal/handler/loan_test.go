package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightcredit/credit-engine/internal/config"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/lock"
	"github.com/brightcredit/credit-engine/internal/service"
	"github.com/brightcredit/credit-engine/tests/mocks"
)

func testRouter(userRepo *mocks.MockUserRepository, loanRepo *mocks.MockLoanRepository, billingRepo *mocks.MockBillingRepository, paymentRepo *mocks.MockPaymentRepository) *mux.Router {
	cfg := &config.Config{
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
	locks := lock.NewKeyedMutex(time.Second)

	loanService := service.NewLoanService(userRepo, loanRepo, billingRepo, paymentRepo, locks, cfg)
	billingService := service.NewBillingService(loanRepo, billingRepo, &mocks.MockAccrualRepository{}, locks, cfg)
	h := NewLoanHandler(loanService, billingService)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/loans", h.Apply).Methods("POST")
	router.HandleFunc("/api/v1/loans/{loanId}/payment", h.MakePayment).Methods("POST")
	router.HandleFunc("/api/v1/loans/{loanId}/statement", h.GetStatement).Methods("GET")
	return router
}

func TestApply_RejectionSurfacesFirstFailingRule(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	router := testRouter(userRepo, &mocks.MockLoanRepository{}, &mocks.MockBillingRepository{}, &mocks.MockPaymentRepository{})

	score := 400
	user := &domain.User{
		UniqueUserID: uuid.New(),
		AadharID:     "123412341234",
		AnnualIncome: decimal.NewFromInt(200000),
		CreditScore:  &score,
	}
	userRepo.On("GetByID", mock.Anything, user.UniqueUserID).Return(user, nil)

	body := `{
		"unique_user_id": "` + user.UniqueUserID.String() + `",
		"loan_type": "CC",
		"loan_amount": 5000,
		"interest_rate": 14,
		"term_period": 12,
		"disbursement_date": "2024-01-01T00:00:00Z"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "credit score is too low or not available")
}

func TestGetStatement_ReturnsBillingHistory(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	billingRepo := &mocks.MockBillingRepository{}
	paymentRepo := &mocks.MockPaymentRepository{}
	router := testRouter(&mocks.MockUserRepository{}, loanRepo, billingRepo, paymentRepo)

	loan := &domain.Loan{
		LoanID:           uuid.New(),
		LoanType:         domain.LoanTypeCreditCard,
		DisbursementDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PrincipalBalance: decimal.NewFromInt(5000),
		Status:           domain.LoanStatusActive,
	}

	loanRepo.On("GetByID", mock.Anything, loan.LoanID).Return(loan, nil)
	billingRepo.On("ListByLoanID", mock.Anything, loan.LoanID).Return([]*domain.Billing{}, nil)
	paymentRepo.On("ListByLoanID", mock.Anything, loan.LoanID).Return([]*domain.Payment{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/"+loan.LoanID.String()+"/statement", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// no billings yet: next statement lands 30 days after disbursement
	assert.Contains(t, rec.Body.String(), "2024-01-31")
}

func TestGetStatement_UnknownLoanIs404(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	router := testRouter(&mocks.MockUserRepository{}, loanRepo, &mocks.MockBillingRepository{}, &mocks.MockPaymentRepository{})

	loanID := uuid.New()
	loanRepo.On("GetByID", mock.Anything, loanID).Return(nil, apperrors.ErrLoanNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/loans/"+loanID.String()+"/statement", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
