package repository

import (
	"context"
	"time"

	"waymark/internal/models"

	"gorm.io/gorm"
)

// StatsRepository defines the interface for aggregate statistics queries
type StatsRepository interface {
	Collect(ctx context.Context, userID uint) (*models.Stats, error)
}

// statsRepository implements StatsRepository
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new statistics repository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Collect gathers site-wide and per-user statistics. Reads are
// independent aggregates; a transaction would add nothing here.
func (r *statsRepository) Collect(ctx context.Context, userID uint) (*models.Stats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.Stats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.Overview.TotalUsers},
		{&models.Recommendation{}, &stats.Overview.TotalRecommendations},
		{&models.Comment{}, &stats.Overview.TotalComments},
		{&models.Upvote{}, &stats.Overview.TotalUpvotes},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	err := db.Model(&models.Recommendation{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.ThisWeek.Recommendations).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Comment{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.ThisWeek.Comments).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.User{}).
		Select("users.id, users.nickname, COUNT(recommendations.id) as recommendation_count").
		Joins("LEFT JOIN recommendations ON recommendations.user_id = users.id").
		Group("users.id, users.nickname").
		Order("recommendation_count DESC").
		Limit(10).
		Scan(&stats.TopContributors).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.User{}).
		Select("users.id, users.nickname, COUNT(comments.id) as comment_count").
		Joins("LEFT JOIN comments ON comments.user_id = users.id").
		Group("users.id, users.nickname").
		Having("COUNT(comments.id) > 0").
		Order("comment_count DESC").
		Limit(10).
		Scan(&stats.TopCommenters).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Tag{}).
		Select("tags.name, COUNT(recommendation_tags.recommendation_id) as usage_count").
		Joins("JOIN recommendation_tags ON recommendation_tags.tag_id = tags.id").
		Group("tags.id, tags.name").
		Order("usage_count DESC").
		Limit(15).
		Scan(&stats.PopularTags).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Recommendation{}).
		Select("recommendations.id, recommendations.title, recommendations.url, recommendations.upvote_count, users.nickname as user_nickname").
		Joins("JOIN users ON users.id = recommendations.user_id").
		Where("recommendations.upvote_count > 0").
		Order("recommendations.upvote_count DESC").
		Limit(10).
		Scan(&stats.MostUpvoted).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Recommendation{}).
		Where("user_id = ?", userID).
		Count(&stats.Personal.Recommendations).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Comment{}).
		Where("user_id = ?", userID).
		Count(&stats.Personal.Comments).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Recommendation{}).
		Select("COALESCE(SUM(upvote_count), 0)").
		Where("user_id = ?", userID).
		Scan(&stats.Personal.UpvotesReceived).Error
	if err != nil {
		return nil, err
	}

	if stats.TopContributors == nil {
		stats.TopContributors = []models.ContributorStat{}
	}
	if stats.TopCommenters == nil {
		stats.TopCommenters = []models.CommenterStat{}
	}
	if stats.PopularTags == nil {
		stats.PopularTags = []models.TagStat{}
	}
	if stats.MostUpvoted == nil {
		stats.MostUpvoted = []models.TopRecommendation{}
	}

	return stats, nil
}
