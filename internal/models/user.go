package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an administrative account
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         Role           `gorm:"size:20;not null;default:support_staff" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to apply the default role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleSupportStaff
	}
	return nil
}
