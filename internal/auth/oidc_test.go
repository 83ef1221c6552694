package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/depotdesk/depotdesk/internal/models"
)

func TestOIDCLoginByEmail(t *testing.T) {
	jwtAuth, db := newTestAuthenticator(t)
	createUser(t, db, "ops@example.com", "s3cret-pass", models.RoleWarehouseAdmin)
	a := &OIDCAuthenticator{db: db, jwt: jwtAuth}

	resp, err := a.loginByEmail(context.Background(), "Ops@Example.com", true, "sub-1")
	if err != nil {
		t.Fatalf("loginByEmail: %v", err)
	}
	if resp.User.Email != "ops@example.com" || resp.RefreshToken == "" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if _, err := a.loginByEmail(context.Background(), "ops@example.com", false, "sub-1"); !errors.Is(err, ErrUnknownIdentity) {
		t.Errorf("unverified email should be rejected, got %v", err)
	}

	if _, err := a.loginByEmail(context.Background(), "stranger@example.com", true, "sub-2"); !errors.Is(err, ErrUnknownIdentity) {
		t.Errorf("unknown email should be rejected, got %v", err)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("expected no user to be provisioned, got %d users", count)
	}
}
