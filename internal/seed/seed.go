// Package seed provides first-run data bootstrapping.
package seed

import (
	"fmt"
	"log/slog"

	"waymark/internal/config"
	"waymark/internal/middleware"
	"waymark/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EnsureDefaultAdmin creates the initial admin account when the users
// table is empty. Registration is invite-gated, so without this account
// a fresh deployment would be unusable.
func EnsureDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username:     cfg.AdminUsername,
		Nickname:     "Admin",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	middleware.Logger.Info("Default admin account created; change the password after first login",
		slog.String("username", cfg.AdminUsername))
	return nil
}
