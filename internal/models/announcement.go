package models

import "time"

// Announcement is a notice published by an admin user.
// CreatedByID is assigned by the server on creation and never changes.
type Announcement struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedByID uint      `gorm:"not null;index" json:"created_by"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
