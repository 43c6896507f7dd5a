// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"waymark/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedQuery describes a feed page request. Search matches title, URL or
// any linked tag name case-insensitively; Tag restricts to an exact
// normalized tag name; Sort is "newest" or "top".
type FeedQuery struct {
	Search string
	Tag    string
	Sort   string
	Limit  int
	Offset int
}

// RecommendationRepository defines the interface for recommendation data operations
type RecommendationRepository interface {
	Create(ctx context.Context, rec *models.Recommendation) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Recommendation, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, q FeedQuery, currentUserID uint) ([]*models.Recommendation, int64, error)
	Delete(ctx context.Context, id uint) error
	ToggleUpvote(ctx context.Context, userID, recommendationID uint) (bool, int, error)
	UpvoteRowCount(ctx context.Context, recommendationID uint) (int64, error)
}

// recommendationRepository implements RecommendationRepository
type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) Create(ctx context.Context, rec *models.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *recommendationRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Recommendation, error) {
	var rec models.Recommendation
	err := r.applyDetails(r.db.WithContext(ctx), currentUserID).
		Where("recommendations.id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	if err := r.resolveTags(ctx, []*models.Recommendation{&rec}); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recommendationRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Recommendation{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// List returns one feed page plus the total count of rows matching the
// same predicate ignoring limit/offset.
func (r *recommendationRepository) List(ctx context.Context, q FeedQuery, currentUserID uint) ([]*models.Recommendation, int64, error) {
	// Filters are expressed as EXISTS subqueries so the outer query
	// never fans out and a plain count equals the distinct count.
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.Recommendation{}), q)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []*models.Recommendation
	base := r.applyFilter(r.applyDetails(r.db.WithContext(ctx), currentUserID), q)
	err := r.applySort(base, q.Sort).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.resolveTags(ctx, recs); err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// applyDetails adds the author join and subqueries computing
// comment_count and the caller's upvote flag in a single query.
func (r *recommendationRepository) applyDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "recommendations.*, users.nickname as user_nickname, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.recommendation_id = recommendations.id) as comment_count"

	return db.Model(&models.Recommendation{}).
		Select(selectQuery+", EXISTS(SELECT 1 FROM upvotes WHERE upvotes.recommendation_id = recommendations.id AND upvotes.user_id = ?) as user_upvoted", currentUserID).
		Joins("JOIN users ON users.id = recommendations.user_id")
}

// applyFilter appends the search and tag predicates. LOWER+LIKE keeps
// the comparison case-insensitive on both supported engines; tag names
// are stored normalized so the stored value is already lower-case.
func (r *recommendationRepository) applyFilter(db *gorm.DB, q FeedQuery) *gorm.DB {
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where(
			`LOWER(recommendations.title) LIKE ? OR LOWER(recommendations.url) LIKE ? OR EXISTS (
				SELECT 1 FROM recommendation_tags rt
				JOIN tags t ON rt.tag_id = t.id
				WHERE rt.recommendation_id = recommendations.id AND t.name LIKE ?)`,
			like, like, like,
		)
	}
	if q.Tag != "" {
		db = db.Where(
			`EXISTS (
				SELECT 1 FROM recommendation_tags rt2
				JOIN tags t2 ON rt2.tag_id = t2.id
				WHERE rt2.recommendation_id = recommendations.id AND t2.name = ?)`,
			q.Tag,
		)
	}
	return db
}

// applySort appends the ORDER BY clause. "top" breaks upvote ties by
// recency; anything unrecognized falls back to newest-first.
func (r *recommendationRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("recommendations.upvote_count DESC, recommendations.created_at DESC")
	default:
		return db.Order("recommendations.created_at DESC")
	}
}

// resolveTags loads tag names for a batch of recommendations in one query.
func (r *recommendationRepository) resolveTags(ctx context.Context, recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}

	var rows []struct {
		RecommendationID uint
		Name             string
	}
	err := r.db.WithContext(ctx).
		Table("recommendation_tags").
		Select("recommendation_tags.recommendation_id, tags.name").
		Joins("JOIN tags ON tags.id = recommendation_tags.tag_id").
		Where("recommendation_tags.recommendation_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byID := make(map[uint][]string, len(recs))
	for _, row := range rows {
		byID[row.RecommendationID] = append(byID[row.RecommendationID], row.Name)
	}
	for _, rec := range recs {
		rec.Tags = byID[rec.ID]
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
	}
	return nil
}

// Delete removes a recommendation and its dependent tag links, upvotes
// and comments in one transaction.
func (r *recommendationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recommendation_id = ?", id).Delete(&models.RecommendationTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recommendation_id = ?", id).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recommendation_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recommendation{}, id).Error
	})
}

// ToggleUpvote flips the caller's upvote inside a transaction. The
// delete runs first: a removed row means the user had upvoted. Otherwise
// the insert uses ON CONFLICT DO NOTHING, so a racing duplicate insert
// leaves both the row set and the counter untouched. Counter updates
// are expressed as engine-side increments, never read-modify-write.
func (r *recommendationRepository) ToggleUpvote(ctx context.Context, userID, recommendationID uint) (bool, int, error) {
	var upvoted bool
	var count int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recommendation_id = ?", userID, recommendationID).
			Delete(&models.Upvote{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			err := tx.Model(&models.Recommendation{}).
				Where("id = ?", recommendationID).
				UpdateColumn("upvote_count", gorm.Expr("upvote_count - 1")).Error
			if err != nil {
				return err
			}
			upvoted = false
		} else {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Upvote{UserID: userID, RecommendationID: recommendationID})
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected > 0 {
				err := tx.Model(&models.Recommendation{}).
					Where("id = ?", recommendationID).
					UpdateColumn("upvote_count", gorm.Expr("upvote_count + 1")).Error
				if err != nil {
					return err
				}
				upvoted = true
			} else {
				// Lost a race against an identical toggle; the row is
				// already present and the winner has adjusted the counter.
				upvoted = true
			}
		}

		var rec models.Recommendation
		if err := tx.Select("upvote_count").First(&rec, recommendationID).Error; err != nil {
			return err
		}
		count = rec.UpvoteCount
		return nil
	})

	return upvoted, count, err
}

// UpvoteRowCount counts the authoritative upvote rows for a
// recommendation. Used by reconciliation checks, not by the read path.
func (r *recommendationRepository) UpvoteRowCount(ctx context.Context, recommendationID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Upvote{}).
		Where("recommendation_id = ?", recommendationID).
		Count(&count).Error
	return count, err
}
