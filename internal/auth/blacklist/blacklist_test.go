package blacklist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.RevokedToken{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// stores returns every backend that can run without external services.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory":   NewMemoryStore(),
		"database": NewDatabaseStore(setupTestDB(t)),
	}
}

func TestStore_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			revoked, err := store.IsRevoked(ctx, "jti-1")
			if err != nil {
				t.Fatalf("IsRevoked: %v", err)
			}
			if revoked {
				t.Fatal("fresh token reported as revoked")
			}

			if err := store.Revoke(ctx, "jti-1", 1, time.Now().Add(time.Hour)); err != nil {
				t.Fatalf("Revoke: %v", err)
			}

			revoked, err = store.IsRevoked(ctx, "jti-1")
			if err != nil {
				t.Fatalf("IsRevoked: %v", err)
			}
			if !revoked {
				t.Fatal("revoked token not reported as revoked")
			}

			other, _ := store.IsRevoked(ctx, "jti-2")
			if other {
				t.Error("unrelated token reported as revoked")
			}
		})
	}
}

func TestStore_RevokeTwice(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			exp := time.Now().Add(time.Hour)
			if err := store.Revoke(ctx, "jti-dup", 1, exp); err != nil {
				t.Fatalf("first Revoke: %v", err)
			}
			err := store.Revoke(ctx, "jti-dup", 1, exp)
			if !errors.Is(err, ErrAlreadyRevoked) {
				t.Fatalf("expected ErrAlreadyRevoked, got %v", err)
			}
		})
	}
}

func TestStore_PurgeRemovesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Revoke(ctx, "expired", 1, time.Now().Add(-time.Minute)); err != nil {
				t.Fatalf("Revoke expired: %v", err)
			}
			if err := store.Revoke(ctx, "live", 1, time.Now().Add(time.Hour)); err != nil {
				t.Fatalf("Revoke live: %v", err)
			}

			removed, err := store.Purge(ctx)
			if err != nil {
				t.Fatalf("Purge: %v", err)
			}
			if removed != 1 {
				t.Errorf("expected 1 removed entry, got %d", removed)
			}

			if revoked, _ := store.IsRevoked(ctx, "live"); !revoked {
				t.Error("live entry was purged")
			}
			if revoked, _ := store.IsRevoked(ctx, "expired"); revoked {
				t.Error("expired entry survived purge")
			}
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	db := setupTestDB(t)

	s, err := New("database", "", db)
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	if _, ok := s.(*DatabaseStore); !ok {
		t.Errorf("expected *DatabaseStore, got %T", s)
	}

	s, err = New("memory", "", nil)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected *MemoryStore, got %T", s)
	}

	if _, err := New("database", "", nil); err == nil {
		t.Error("expected error for database store without db")
	}
	if _, err := New("valkey", "", nil); err == nil {
		t.Error("expected error for valkey store without address")
	}
	if _, err := New("redis", "", nil); err == nil {
		t.Error("expected error for unknown type")
	}
}
