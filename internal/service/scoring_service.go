package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightcredit/credit-engine/internal/feed"
	"github.com/brightcredit/credit-engine/internal/repository"
	"github.com/brightcredit/credit-engine/pkg/credit"
	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
	"github.com/brightcredit/credit-engine/pkg/logger"
)

type ScoringService struct {
	userRepo repository.UserRepository
	feed     feed.Reader
}

func NewScoringService(userRepo repository.UserRepository, feed feed.Reader) *ScoringService {
	return &ScoringService{
		userRepo: userRepo,
		feed:     feed,
	}
}

// CalculateCreditScore derives a score from the user's net balance in the
// external transaction feed and persists it onto the user. A user with no
// feed records gets the minimum score.
func (s *ScoringService) CalculateCreditScore(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	balance, err := s.feed.NetBalance(ctx, user.AadharID)
	if err != nil {
		return 0, apperrors.WrapFeedError(err)
	}

	score := credit.ScoreFromBalance(balance)

	if err := s.userRepo.UpdateCreditScore(ctx, userID, score); err != nil {
		return 0, err
	}

	logger.Log.Info("credit score updated",
		logger.String("user_id", userID.String()),
		logger.String("balance", balance.String()),
	)

	return score, nil
}
