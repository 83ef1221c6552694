package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStore keeps revoked tokens in the revoked_tokens table
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a gorm-backed blacklist
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Revoke blacklists jti until expiresAt
func (s *DatabaseStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	entry := models.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		RevokedAt: time.Now().UTC(),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyRevoked
	}
	return nil
}

// IsRevoked reports whether jti is blacklisted
func (s *DatabaseStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var entry models.RevokedToken
	err := s.db.WithContext(ctx).Select("jti").Where("jti = ?", jti).First(&entry).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check token: %w", err)
}

// Purge deletes entries whose token has expired
func (s *DatabaseStore) Purge(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.RevokedToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Close is a no-op; the database handle is owned by the caller
func (s *DatabaseStore) Close() error {
	return nil
}
