package service

import (
	"context"
	"errors"
	"strings"

	"waymark/internal/models"
	"waymark/internal/repository"

	"gorm.io/gorm"
)

// CommentService owns comment creation and deletion rules.
type CommentService struct {
	commentRepo repository.CommentRepository
	recRepo     repository.RecommendationRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repository.CommentRepository,
	recRepo repository.RecommendationRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		recRepo:     recRepo,
		isAdmin:     isAdmin,
	}
}

// List returns the comments on a recommendation, oldest first.
func (s *CommentService) List(ctx context.Context, recommendationID uint) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByRecommendation(ctx, recommendationID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}

// Create adds a comment to an existing recommendation.
func (s *CommentService) Create(ctx context.Context, userID, recommendationID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content required")
	}

	exists, err := s.recRepo.Exists(ctx, recommendationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Recommendation not found")
	}

	comment := &models.Comment{
		RecommendationID: recommendationID,
		UserID:           userID,
		Content:          content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// Delete removes a comment. Only the owner or an admin may delete.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment not found")
		}
		return err
	}

	if comment.UserID != callerID {
		admin, err := s.isAdmin(ctx, callerID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("Not authorized")
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
