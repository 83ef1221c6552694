package blacklist

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

const valkeyKeyPrefix = "depotdesk:revoked:"

// ValkeyStore keeps revoked tokens as expiring Valkey keys.
// Keys carry the token's remaining lifetime as TTL, so Valkey drops them on its own.
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore connects to Valkey at addr
func NewValkeyStore(addr string) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	slog.Info("Initialized Valkey token blacklist", "address", addr)
	return NewValkeyStoreWithClient(client), nil
}

// NewValkeyStoreWithClient wraps an existing client
func NewValkeyStoreWithClient(client valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func valkeyKey(jti string) string {
	return valkeyKeyPrefix + jti
}

// Revoke blacklists jti until expiresAt
func (s *ValkeyStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		// Already expired tokens still get a short entry so the call is observable
		ttl = time.Second
	}

	cmd := s.client.B().Set().
		Key(valkeyKey(jti)).
		Value(strconv.FormatUint(uint64(userID), 10)).
		Nx().
		ExSeconds(int64(ttl / time.Second)).
		Build()

	err := s.client.Do(ctx, cmd).Error()
	if valkey.IsValkeyNil(err) {
		// SET NX returns nil when the key already exists
		return ErrAlreadyRevoked
	}
	if err != nil {
		return fmt.Errorf("failed to revoke token in Valkey: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti is blacklisted
func (s *ValkeyStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Do(ctx, s.client.B().Exists().Key(valkeyKey(jti)).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check token in Valkey: %w", err)
	}
	return n > 0, nil
}

// Purge is a no-op; Valkey expires keys itself
func (s *ValkeyStore) Purge(ctx context.Context) (int64, error) {
	return 0, nil
}

// Close closes the Valkey connection
func (s *ValkeyStore) Close() error {
	s.client.Close()
	slog.Info("Valkey blacklist closed")
	return nil
}
