package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"waymark/internal/models"
	"waymark/internal/repository"

	"gorm.io/gorm"
)

const (
	maxInviteBatch       = 10
	inviteCodeBytes      = 4
	inviteUniqueAttempts = 10
)

// AdminService implements invite-code and user administration.
type AdminService struct {
	inviteRepo repository.InviteRepository
	userRepo   repository.UserRepository
}

// NewAdminService creates a new admin service
func NewAdminService(inviteRepo repository.InviteRepository, userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
	}
}

// newInviteCode generates a random 8-hex-character upper-case code.
func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// CreateInvites issues between 1 and 10 fresh invite codes owned by the
// requesting admin. Collisions with existing codes are retried a
// bounded number of times.
func (s *AdminService) CreateInvites(ctx context.Context, adminID uint, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}
	if count > maxInviteBatch {
		count = maxInviteBatch
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var code string
		for attempt := 0; attempt < inviteUniqueAttempts; attempt++ {
			candidate, err := newInviteCode()
			if err != nil {
				return nil, err
			}
			exists, err := s.inviteRepo.CodeExists(ctx, candidate)
			if err != nil {
				return nil, err
			}
			if !exists {
				code = candidate
				break
			}
		}
		if code == "" {
			return nil, errors.New("could not generate a unique invite code")
		}

		invite := &models.InviteCode{Code: code, CreatedBy: adminID}
		if err := s.inviteRepo.Create(ctx, invite); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// ListInvites returns all invite codes with creator/consumer nicknames.
func (s *AdminService) ListInvites(ctx context.Context) ([]*models.InviteCode, error) {
	invites, err := s.inviteRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if invites == nil {
		invites = []*models.InviteCode{}
	}
	return invites, nil
}

// DeleteInvite removes an unused invite code. Consumed codes are
// immutable and cannot be deleted.
func (s *AdminService) DeleteInvite(ctx context.Context, code string) error {
	invite, err := s.inviteRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if invite == nil {
		return models.NewNotFoundError("Invite code not found")
	}
	if invite.UsedBy != nil {
		return models.NewValidationError("Cannot delete used invite code")
	}
	return s.inviteRepo.Delete(ctx, invite.ID)
}

// ListUsers returns all users with recommendation counts.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// DeleteUser removes a non-admin user and all their data. Admins cannot
// be deleted through this path, and an admin cannot delete themself.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, targetID uint) error {
	if targetID == adminID {
		return models.NewValidationError("Cannot delete yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User not found")
		}
		return err
	}
	if target.IsAdmin {
		return models.NewValidationError("Cannot delete admin users")
	}

	return s.userRepo.Delete(ctx, targetID)
}
