package repository

import (
	"context"
	"errors"

	"waymark/internal/models"

	"gorm.io/gorm"
)

// InviteRepository defines the interface for invite code data operations
type InviteRepository interface {
	Create(ctx context.Context, invite *models.InviteCode) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetByCode(ctx context.Context, code string) (*models.InviteCode, error)
	List(ctx context.Context) ([]*models.InviteCode, error)
	Delete(ctx context.Context, id uint) error
}

// inviteRepository implements InviteRepository
type inviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new invite code repository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InviteCode{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// GetByCode returns (nil, nil) when no invite has that code.
func (r *inviteRepository) GetByCode(ctx context.Context, code string) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}

// List returns all invites, newest first, with creator and consumer
// nicknames resolved for the admin listing.
func (r *inviteRepository) List(ctx context.Context) ([]*models.InviteCode, error) {
	var invites []*models.InviteCode
	err := r.db.WithContext(ctx).
		Model(&models.InviteCode{}).
		Select("invite_codes.*, creator.nickname as created_by_nickname, consumer.nickname as used_by_nickname").
		Joins("JOIN users creator ON creator.id = invite_codes.created_by").
		Joins("LEFT JOIN users consumer ON consumer.id = invite_codes.used_by").
		Order("invite_codes.created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.InviteCode{}, id).Error
}
