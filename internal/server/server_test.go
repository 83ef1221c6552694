package server

import (
	"context"
	"testing"
	"time"

	"github.com/depotdesk/depotdesk/internal/auth/blacklist"
)

func TestPurgeLoop_RemovesExpired(t *testing.T) {
	store := blacklist.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Revoke(ctx, "stale", 1, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := store.Revoke(ctx, "live", 1, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	done := make(chan struct{})
	go func() {
		PurgeLoop(ctx, store, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		revoked, _ := store.IsRevoked(ctx, "stale")
		if !revoked {
			break
		}
		select {
		case <-deadline:
			t.Fatal("expired entry was never purged")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if revoked, _ := store.IsRevoked(ctx, "live"); !revoked {
		t.Error("live entry must survive purge")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PurgeLoop did not stop on cancel")
	}
}

func TestPurgeLoop_DisabledReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		PurgeLoop(context.Background(), blacklist.NewMemoryStore(), 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PurgeLoop with zero interval should return immediately")
	}
}
