// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered member of the Waymark application.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	Nickname     string    `gorm:"not null" json:"nickname"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`

	Recommendations []Recommendation `gorm:"foreignKey:UserID" json:"recommendations,omitempty"`

	// RecommendationCount is not persisted; computed in admin listings.
	RecommendationCount int `gorm:"->" json:"recommendation_count"`
}
