package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/service"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
	"github.com/brightcredit/credit-engine/pkg/response"
)

type LoanHandler struct {
	loans     *service.LoanService
	billing   *service.BillingService
	validator *validator.Validate
}

func NewLoanHandler(loans *service.LoanService, billing *service.BillingService) *LoanHandler {
	return &LoanHandler{
		loans:     loans,
		billing:   billing,
		validator: validator.New(),
	}
}

func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	loan, err := h.loans.ApplyLoan(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *LoanHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	payment, err := h.loans.MakePayment(r.Context(), loanID, req.Amount, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *LoanHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	statement, err := h.loans.GetStatement(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, statement)
}

// GenerateBilling triggers statement generation for one loan on demand.
func (h *LoanHandler) GenerateBilling(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	result, err := h.billing.GenerateBillingForLoan(r.Context(), loanID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, result)
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.UnprocessableEntity(w, validationErr.Reason, apperrors.ErrValidationFailed)
	case errors.Is(err, apperrors.ErrUserNotFound):
		response.NotFound(w, "user not found")
	case errors.Is(err, apperrors.ErrLoanNotFound):
		response.NotFound(w, "loan not found")
	case errors.Is(err, apperrors.ErrLoanNotActive):
		response.Conflict(w, "loan is not active", err)
	case errors.Is(err, apperrors.ErrLockTimeout):
		response.Conflict(w, "loan is busy, retry later", err)
	case errors.Is(err, apperrors.ErrInvalidAmount):
		response.BadRequest(w, "invalid payment amount", err)
	case errors.Is(err, apperrors.ErrFeedUnavailable), errors.Is(err, apperrors.ErrFeedMalformed):
		response.Error(w, http.StatusBadGateway, "transaction feed error", err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
