// Package blacklist keeps the list of revoked refresh tokens.
//
// Tokens are identified by their JWT ID. Entries only need to live until the
// token itself expires, after which signature validation rejects it anyway;
// Purge drops those stale entries.
package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrAlreadyRevoked is returned when a token is blacklisted twice
var ErrAlreadyRevoked = errors.New("token already revoked")

// Store is a persisted revocation list
type Store interface {
	// Revoke blacklists jti until expiresAt
	Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error

	// IsRevoked reports whether jti is blacklisted
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Purge removes entries whose token has expired and returns how many were removed
	Purge(ctx context.Context) (int64, error)

	// Close releases resources held by the store
	Close() error
}

// New creates a store of the given type ("database", "valkey" or "memory")
func New(storeType, valkeyAddr string, db *gorm.DB) (Store, error) {
	switch storeType {
	case "database", "":
		if db == nil {
			return nil, fmt.Errorf("database instance is required for database blacklist")
		}
		return NewDatabaseStore(db), nil
	case "valkey":
		if valkeyAddr == "" {
			return nil, fmt.Errorf("valkey address is required when blacklist type is valkey")
		}
		return NewValkeyStore(valkeyAddr)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported blacklist type: %s (supported: database, valkey, memory)", storeType)
	}
}
