package models

import "time"

// RevokedToken is a blacklisted refresh token, keyed by its JWT ID.
// Rows whose ExpiresAt has passed carry no information and may be purged.
type RevokedToken struct {
	JTI       string    `gorm:"primarykey;size:64" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	RevokedAt time.Time `gorm:"not null" json:"revoked_at"`
}
