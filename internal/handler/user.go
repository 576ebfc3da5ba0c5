package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/service"
	"github.com/brightcredit/credit-engine/pkg/response"
)

type UserHandler struct {
	users     *service.UserService
	scoring   *service.ScoringService
	validator *validator.Validate
}

func NewUserHandler(users *service.UserService, scoring *service.ScoringService) *UserHandler {
	return &UserHandler{
		users:     users,
		scoring:   scoring,
		validator: validator.New(),
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	user, err := h.users.RegisterUser(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, user)
}

// CalculateScore triggers the credit scoring batch operation for one user.
func (h *UserHandler) CalculateScore(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		response.BadRequest(w, "invalid user id", err)
		return
	}

	score, err := h.scoring.CalculateCreditScore(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, domain.CreditScoreResponse{UserID: userID, CreditScore: score})
}
