package models

import (
	"time"
)

// Comment represents a comment on a recommendation.
type Comment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	RecommendationID uint      `gorm:"not null;index" json:"recommendation_id"`
	UserID           uint      `gorm:"not null" json:"user_id"`
	Content          string    `gorm:"not null" json:"content"`
	CreatedAt        time.Time `json:"created_at"`

	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Recommendation Recommendation `gorm:"foreignKey:RecommendationID" json:"-"`

	// UserNickname is not persisted; joined from users at query time.
	UserNickname string `gorm:"->" json:"user_nickname"`
}
