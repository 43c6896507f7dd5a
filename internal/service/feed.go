// Package service implements the application's business logic on top of
// the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"waymark/internal/models"
	"waymark/internal/repository"

	"gorm.io/gorm"
)

// TitleFetcher resolves a page title for a URL, returning "" when the
// title cannot be determined. Implementations must bound their own
// latency; a slow or failing fetch never blocks submission.
type TitleFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// FeedService builds recommendation listings and owns the
// recommendation lifecycle (create, delete).
type FeedService struct {
	recRepo repository.RecommendationRepository
	tagRepo repository.TagRepository
	titles  TitleFetcher
	isAdmin func(ctx context.Context, userID uint) (bool, error)
}

// NewFeedService creates a new feed service
func NewFeedService(
	recRepo repository.RecommendationRepository,
	tagRepo repository.TagRepository,
	titles TitleFetcher,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *FeedService {
	return &FeedService{
		recRepo: recRepo,
		tagRepo: tagRepo,
		titles:  titles,
		isAdmin: isAdmin,
	}
}

// FeedInput describes a feed page request from a handler.
type FeedInput struct {
	Search string
	Tag    string
	Sort   string
	Page   int
	Limit  int
}

// Pagination is the metadata block accompanying every feed page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// FeedPage is one page of recommendations plus pagination metadata.
type FeedPage struct {
	Recommendations []*models.Recommendation `json:"recommendations"`
	Pagination      Pagination               `json:"pagination"`
}

// CreateRecommendationInput carries a new submission.
type CreateRecommendationInput struct {
	UserID  uint
	URL     string
	Title   string
	Comment string
	Tags    []string
}

const defaultFeedLimit = 20

// List returns one filtered, sorted, paginated feed page. The total is
// computed from the same predicate, so page*limit tiles the full result
// set without duplication or gaps.
func (s *FeedService) List(ctx context.Context, callerID uint, in FeedInput) (*FeedPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	q := repository.FeedQuery{
		Search: in.Search,
		Tag:    in.Tag,
		Sort:   in.Sort,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	recs, total, err := s.recRepo.List(ctx, q, callerID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*models.Recommendation{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &FeedPage{
		Recommendations: recs,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Get returns a single recommendation with its computed fields.
func (s *FeedService) Get(ctx context.Context, callerID, id uint) (*models.Recommendation, error) {
	rec, err := s.recRepo.GetByID(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recommendation not found")
		}
		return nil, err
	}
	return rec, nil
}

// FetchTitle resolves the page title for a URL. Failures yield an
// empty string rather than an error.
func (s *FeedService) FetchTitle(ctx context.Context, url string) string {
	return s.titles.Fetch(ctx, url)
}

// Create stores a new recommendation. A missing title is resolved via
// the title fetcher and falls back to the URL literal; submitted tags
// are normalized, created on demand and linked idempotently, so
// duplicates within one submission collapse to a single link.
func (s *FeedService) Create(ctx context.Context, in CreateRecommendationInput) (*models.Recommendation, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, models.NewValidationError("URL is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = s.titles.Fetch(ctx, url)
	}
	if title == "" {
		title = url
	}

	rec := &models.Recommendation{
		UserID:  in.UserID,
		URL:     url,
		Title:   title,
		Comment: in.Comment,
	}
	if err := s.recRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	for _, raw := range in.Tags {
		name := NormalizeTag(raw)
		if name == "" {
			continue
		}
		tag, err := s.tagRepo.GetOrCreate(ctx, name, in.UserID)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, fmt.Errorf("tag %q could not be resolved", name)
		}
		if err := s.tagRepo.Link(ctx, rec.ID, tag.ID); err != nil {
			return nil, err
		}
	}

	return s.recRepo.GetByID(ctx, rec.ID, in.UserID)
}

// Delete removes a recommendation and its dependents. Only the owner or
// an admin may delete.
func (s *FeedService) Delete(ctx context.Context, callerID, id uint) error {
	rec, err := s.recRepo.GetByID(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Recommendation not found")
		}
		return err
	}

	if rec.UserID != callerID {
		admin, err := s.isAdmin(ctx, callerID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("Not authorized")
		}
	}

	return s.recRepo.Delete(ctx, id)
}
