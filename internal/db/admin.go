package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/depotdesk/depotdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateDefaultAdmin creates a platform admin from ADMIN_EMAIL and
// ADMIN_PASSWORD (and optionally ADMIN_NAME) when no users exist yet.
func CreateDefaultAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" || password == "" {
		slog.Info("No ADMIN_EMAIL or ADMIN_PASSWORD set, skipping default admin creation")
		return nil
	}
	if name == "" {
		name = "Administrator"
	}

	// Soft-deleted users count too; the bootstrap only runs on an empty database
	var count int64
	if err := db.Unscoped().Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.Info("Users already exist, skipping default admin creation")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashedPassword),
		Role:         models.RolePlatformAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("Default admin user created", "user_id", user.ID, "email", email)
	return nil
}
