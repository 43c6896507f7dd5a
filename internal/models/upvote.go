package models

import (
	"time"
)

// Upvote records that a user upvoted a recommendation. The composite
// primary key enforces at most one upvote per (user, recommendation);
// the row set is the source of truth for Recommendation.UpvoteCount.
type Upvote struct {
	UserID           uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	RecommendationID uint      `gorm:"primaryKey;autoIncrement:false" json:"recommendation_id"`
	CreatedAt        time.Time `json:"created_at"`

	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Recommendation Recommendation `gorm:"foreignKey:RecommendationID" json:"-"`
}
