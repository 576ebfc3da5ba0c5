package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightcredit/credit-engine/internal/domain"
	"github.com/brightcredit/credit-engine/internal/repository"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterUser creates a user with no credit score; the score stays unset
// until the scoring batch runs for them. Aadhaar and email uniqueness is
// enforced by database constraints.
func (s *UserService) RegisterUser(ctx context.Context, req *domain.RegisterUserRequest) (*domain.User, error) {
	now := time.Now()
	user := &domain.User{
		UniqueUserID: uuid.New(),
		AadharID:     req.AadharID,
		Name:         req.Name,
		Email:        req.Email,
		AnnualIncome: req.AnnualIncome,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
