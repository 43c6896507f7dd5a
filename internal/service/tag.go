package service

import (
	"context"
	"strings"

	"waymark/internal/models"
	"waymark/internal/repository"
)

// NormalizeTag applies the canonical tag normalization: trim whitespace,
// lower-case. The result is the uniqueness key, applied identically at
// creation and lookup.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TagService owns tag normalization, creation and linking.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new tag service
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// GetOrCreate returns the tag for the normalized name, creating it with
// the given creator only if it does not already exist. An existing
// tag's creator is never overwritten. The bool reports whether this
// call inserted the row.
func (s *TagService) GetOrCreate(ctx context.Context, name string, creatorID uint) (*models.Tag, bool, error) {
	normalized := NormalizeTag(name)
	if normalized == "" {
		return nil, false, models.NewValidationError("Tag name required")
	}

	existing, err := s.tagRepo.GetByName(ctx, normalized)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	tag, err := s.tagRepo.GetOrCreate(ctx, normalized, creatorID)
	if err != nil {
		return nil, false, err
	}
	return tag, true, nil
}

// List returns tags ordered by usage count descending then name
// ascending, optionally filtered by substring.
func (s *TagService) List(ctx context.Context, search string) ([]*models.Tag, error) {
	tags, err := s.tagRepo.List(ctx, search)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*models.Tag{}
	}
	return tags, nil
}
