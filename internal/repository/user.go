package repository

import (
	"context"
	"errors"
	"time"

	"waymark/internal/models"

	"gorm.io/gorm"
)

// Sentinel errors surfaced by registration. The service layer maps them
// to the API error taxonomy.
var (
	ErrInviteInvalid = errors.New("invalid or used invite code")
	ErrUsernameTaken = errors.New("username already taken")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	RegisterWithInvite(ctx context.Context, user *models.User, code string) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns (nil, nil) when no user has that username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RegisterWithInvite creates the user and claims the invite code in one
// transaction. The claim is a conditional update requiring used_by to
// still be NULL, so of two concurrent redemptions of the same code
// exactly one commits; the other rolls back with ErrInviteInvalid.
func (r *userRepository) RegisterWithInvite(ctx context.Context, user *models.User, code string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite models.InviteCode
		err := tx.Where("code = ? AND used_by IS NULL", code).First(&invite).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteInvalid
			}
			return err
		}

		var taken int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		now := time.Now()
		claim := tx.Model(&models.InviteCode{}).
			Where("id = ? AND used_by IS NULL", invite.ID).
			Updates(map[string]interface{}{"used_by": user.ID, "used_at": now})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrInviteInvalid
		}
		return nil
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// List returns all users with their recommendation counts, newest first.
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, (SELECT COUNT(*) FROM recommendations WHERE recommendations.user_id = users.id) as recommendation_count").
		Order("users.created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// Delete removes a user and every dependent row in strict dependency
// order, all in one transaction: authored comments, cast upvotes (with
// counter reconciliation on the affected recommendations), owned tags'
// links and tag rows, the user's recommendations with their dependents,
// invite codes authored or consumed, then the user row.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		// Keep upvote_count equal to the surviving row set before the
		// user's upvotes disappear.
		err := tx.Exec(
			`UPDATE recommendations SET upvote_count = upvote_count - 1
			 WHERE id IN (SELECT recommendation_id FROM upvotes WHERE user_id = ?)`,
			id,
		).Error
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Upvote{}).Error; err != nil {
			return err
		}

		err = tx.Exec(
			`DELETE FROM recommendation_tags
			 WHERE tag_id IN (SELECT id FROM tags WHERE created_by = ?)`,
			id,
		).Error
		if err != nil {
			return err
		}
		if err := tx.Where("created_by = ?", id).Delete(&models.Tag{}).Error; err != nil {
			return err
		}

		for _, stmt := range []string{
			`DELETE FROM recommendation_tags WHERE recommendation_id IN (SELECT id FROM recommendations WHERE user_id = ?)`,
			`DELETE FROM upvotes WHERE recommendation_id IN (SELECT id FROM recommendations WHERE user_id = ?)`,
			`DELETE FROM comments WHERE recommendation_id IN (SELECT id FROM recommendations WHERE user_id = ?)`,
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("created_by = ? OR used_by = ?", id, id).Delete(&models.InviteCode{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
