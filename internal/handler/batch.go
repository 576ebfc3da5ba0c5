package handler

import (
	"net/http"
	"time"

	"github.com/brightcredit/credit-engine/internal/service"
	"github.com/brightcredit/credit-engine/pkg/response"
)

// BatchHandler exposes the daily batch operations for manual or external
// triggering. The scheduler binary calls the same service methods directly.
type BatchHandler struct {
	accrual *service.AccrualService
	billing *service.BillingService
}

func NewBatchHandler(accrual *service.AccrualService, billing *service.BillingService) *BatchHandler {
	return &BatchHandler{
		accrual: accrual,
		billing: billing,
	}
}

func (h *BatchHandler) RunAccrual(w http.ResponseWriter, r *http.Request) {
	runDate, err := runDateParam(r)
	if err != nil {
		response.BadRequest(w, "invalid date, expected YYYY-MM-DD", err)
		return
	}

	outcomes, err := h.accrual.AccrueDailyInterest(r.Context(), runDate)
	if err != nil {
		response.InternalServerError(w, "accrual run failed", err)
		return
	}

	response.Success(w, outcomes)
}

func (h *BatchHandler) RunBilling(w http.ResponseWriter, r *http.Request) {
	runDate, err := runDateParam(r)
	if err != nil {
		response.BadRequest(w, "invalid date, expected YYYY-MM-DD", err)
		return
	}

	outcomes, err := h.billing.RunDailyBilling(r.Context(), runDate)
	if err != nil {
		response.InternalServerError(w, "billing run failed", err)
		return
	}

	response.Success(w, outcomes)
}

// runDateParam reads an optional ?date=YYYY-MM-DD override, defaulting to
// the current date.
func runDateParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}
