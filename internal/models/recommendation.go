package models

import (
	"time"
)

// Recommendation represents a URL shared by a user.
// UpvoteCount is a denormalized counter kept in sync with the upvotes
// table by every mutating operation; it is never recomputed on read.
type Recommendation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	URL         string    `gorm:"not null" json:"url"`
	Title       string    `gorm:"not null" json:"title"`
	Comment     string    `json:"comment"`
	UpvoteCount int       `gorm:"not null;default:0" json:"upvote_count"`
	CreatedAt   time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	// UserNickname is not persisted; joined from users at query time.
	UserNickname string `gorm:"->" json:"user_nickname"`
	// CommentCount is not persisted; computed at query time.
	CommentCount int `gorm:"->" json:"comment_count"`
	// UserUpvoted indicates whether the requesting user upvoted this
	// recommendation (computed).
	UserUpvoted bool `gorm:"->" json:"userUpvoted"`
	// Tags holds the associated tag names, resolved separately.
	Tags []string `gorm:"-" json:"tags"`
}

// RecommendationTag links a recommendation to a tag. The composite
// primary key makes duplicate links impossible; inserts use
// ON CONFLICT DO NOTHING so a repeat link is a no-op.
type RecommendationTag struct {
	RecommendationID uint `gorm:"primaryKey;autoIncrement:false" json:"recommendation_id"`
	TagID            uint `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`
}
