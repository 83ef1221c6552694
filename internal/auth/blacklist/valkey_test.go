package blacklist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func TestValkeyStore_Revoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStoreWithClient(client)

	client.EXPECT().Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
		return len(cmd) == 6 &&
			cmd[0] == "SET" &&
			cmd[1] == "depotdesk:revoked:jti-1" &&
			cmd[2] == "7" &&
			cmd[3] == "NX" &&
			cmd[4] == "EX"
	}, "SET depotdesk:revoked:jti-1 7 NX EX <ttl>")).Return(mock.Result(mock.ValkeyString("OK")))

	if err := store.Revoke(context.Background(), "jti-1", 7, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
}

func TestValkeyStore_RevokeExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStoreWithClient(client)

	client.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.ValkeyNil()))

	err := store.Revoke(context.Background(), "jti-1", 7, time.Now().Add(time.Hour))
	if !errors.Is(err, ErrAlreadyRevoked) {
		t.Fatalf("expected ErrAlreadyRevoked, got %v", err)
	}
}

func TestValkeyStore_IsRevoked(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	store := NewValkeyStoreWithClient(client)

	client.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "depotdesk:revoked:present")).
		Return(mock.Result(mock.ValkeyInt64(1)))
	client.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "depotdesk:revoked:absent")).
		Return(mock.Result(mock.ValkeyInt64(0)))

	revoked, err := store.IsRevoked(context.Background(), "present")
	if err != nil || !revoked {
		t.Fatalf("expected present token revoked, got %v, %v", revoked, err)
	}
	revoked, err = store.IsRevoked(context.Background(), "absent")
	if err != nil || revoked {
		t.Fatalf("expected absent token not revoked, got %v, %v", revoked, err)
	}
}

func TestValkeyStore_PurgeIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewValkeyStoreWithClient(mock.NewClient(ctrl))

	removed, err := store.Purge(context.Background())
	if err != nil || removed != 0 {
		t.Fatalf("expected no-op purge, got %d, %v", removed, err)
	}
}
