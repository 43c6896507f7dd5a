package service

import (
	"context"

	"waymark/internal/models"
	"waymark/internal/repository"
)

// StatsService serves site-wide and per-user statistics.
type StatsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// Collect gathers the statistics payload for the requesting user.
func (s *StatsService) Collect(ctx context.Context, userID uint) (*models.Stats, error) {
	return s.statsRepo.Collect(ctx, userID)
}
