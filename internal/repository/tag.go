package repository

import (
	"context"
	"fmt"
	"strings"

	"waymark/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetOrCreate(ctx context.Context, name string, creatorID uint) (*models.Tag, error)
	Link(ctx context.Context, recommendationID, tagID uint) error
	List(ctx context.Context, search string) ([]*models.Tag, error)
}

// tagRepository implements TagRepository
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// GetByName looks up a tag by its normalized name. Returns (nil, nil)
// when no such tag exists.
func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// getOrCreateAttempts bounds the read/insert retry loop in GetOrCreate.
const getOrCreateAttempts = 3

// GetOrCreate returns the tag with the given normalized name, inserting
// it with the given creator if absent. A racing insert on the same name
// is absorbed: ON CONFLICT DO NOTHING followed by a re-read means the
// loser returns the winner's row instead of an error, and the existing
// creator is never overwritten. The winner's row can itself vanish
// before the re-read (a concurrent user delete cascades into tags), so
// the whole sequence retries a few times and never returns (nil, nil).
func (r *tagRepository) GetOrCreate(ctx context.Context, name string, creatorID uint) (*models.Tag, error) {
	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		existing, err := r.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}

		tag := &models.Tag{Name: name, CreatedBy: creatorID}
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(tag)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			return tag, nil
		}
		// Another request created it between the read and the insert;
		// loop back and read the winner's row.
	}
	return nil, fmt.Errorf("tag %q: repeated create conflicts", name)
}

// Link associates a tag with a recommendation. Linking an already
// linked pair succeeds as a no-op.
func (r *tagRepository) Link(ctx context.Context, recommendationID, tagID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RecommendationTag{
			RecommendationID: recommendationID,
			TagID:            tagID,
		}).Error
}

// List returns tags ordered by usage (link count) descending, then name
// ascending, optionally filtered by a case-insensitive substring match.
func (r *tagRepository) List(ctx context.Context, search string) ([]*models.Tag, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, (SELECT COUNT(*) FROM recommendation_tags WHERE recommendation_tags.tag_id = tags.id) as usage_count")

	if search != "" {
		// Stored names are normalized lower-case.
		query = query.Where("tags.name LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var tags []*models.Tag
	err := query.Order("usage_count DESC, tags.name ASC").Find(&tags).Error
	return tags, err
}
