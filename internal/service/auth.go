package service

import (
	"context"
	"errors"

	"waymark/internal/models"
	"waymark/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthService handles credential verification and invite-gated
// registration.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	InviteCode string
	Username   string
	Nickname   string
	Password   string
}

// Login verifies a username/password pair and returns the user.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.NewValidationError("Username and password required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return user, nil
}

// Register creates a user behind a single-use invite code. The invite
// claim and the user insert commit together, so two concurrent
// redemptions of the same code produce exactly one account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.InviteCode == "" || in.Username == "" || in.Nickname == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields required")
	}
	if len(in.Username) < 3 || len(in.Username) > 30 {
		return nil, models.NewValidationError("Username must be 3-30 characters")
	}
	if len(in.Password) < 6 {
		return nil, models.NewValidationError("Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Nickname:     in.Nickname,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.RegisterWithInvite(ctx, user, in.InviteCode); err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteInvalid):
			return nil, models.NewValidationError("Invalid or used invite code")
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, models.NewValidationError("Username already taken")
		default:
			return nil, err
		}
	}

	return user, nil
}

// ChangePassword verifies the current password before storing the new
// hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return models.NewValidationError("Both passwords required")
	}
	if len(newPassword) < 6 {
		return models.NewValidationError("New password must be at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}
