package models

// Tag is a normalized (trimmed, lower-cased) label. Name is the
// uniqueness key; normalization is applied identically at creation and
// lookup so "News" and " news " resolve to the same row.
type Tag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"unique;not null" json:"name"`
	CreatedBy uint   `gorm:"not null" json:"created_by"`

	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`

	// UsageCount is not persisted; count of recommendation links,
	// computed in listings.
	UsageCount int `gorm:"->" json:"usage_count"`
}
