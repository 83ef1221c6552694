package blacklist

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore keeps revoked tokens in process memory.
// Entries are lost on restart, so it only suits development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory blacklist
func NewMemoryStore() *MemoryStore {
	slog.Info("Initialized in-memory token blacklist")
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke blacklists jti until expiresAt
func (s *MemoryStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[jti]; exists {
		return ErrAlreadyRevoked
	}
	s.entries[jti] = expiresAt
	return nil
}

// IsRevoked reports whether jti is blacklisted
func (s *MemoryStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.entries[jti]
	return exists, nil
}

// Purge removes entries whose token has expired
func (s *MemoryStore) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed int64
	for jti, expiresAt := range s.entries {
		if expiresAt.Before(now) {
			delete(s.entries, jti)
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
