package service

import (
	"context"

	"waymark/internal/models"
	"waymark/internal/repository"
)

// ToggleResult reports the caller's vote state after a toggle.
type ToggleResult struct {
	Upvoted     bool `json:"upvoted"`
	UpvoteCount int  `json:"upvote_count"`
}

// UpvoteService flips per-user upvotes while keeping the denormalized
// counter consistent with the upvote row set.
type UpvoteService struct {
	recRepo repository.RecommendationRepository
}

// NewUpvoteService creates a new upvote service
func NewUpvoteService(recRepo repository.RecommendationRepository) *UpvoteService {
	return &UpvoteService{recRepo: recRepo}
}

// Toggle adds the user's upvote if absent, removes it if present, and
// returns the resulting state with the up-to-date counter.
func (s *UpvoteService) Toggle(ctx context.Context, userID, recommendationID uint) (*ToggleResult, error) {
	exists, err := s.recRepo.Exists(ctx, recommendationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Recommendation not found")
	}

	upvoted, count, err := s.recRepo.ToggleUpvote(ctx, userID, recommendationID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Upvoted: upvoted, UpvoteCount: count}, nil
}
