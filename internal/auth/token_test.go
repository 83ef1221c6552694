package auth

import (
	"testing"
	"time"

	"github.com/depotdesk/depotdesk/internal/models"
)

func newTestIssuer(t *testing.T, secret, issuer string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	t.Helper()
	tokens, err := NewTokenIssuer(secret, issuer, accessTTL, refreshTTL)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return tokens
}

func TestTokenIssuer_Parse(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", "depotdesk", time.Minute, time.Hour)
	user := &models.User{ID: 7, Email: "ops@example.com", Role: models.RoleWarehouseAdmin}

	access, claims, err := issuer.Issue(user, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if claims.ID == "" || claims.Subject != "7" {
		t.Errorf("unexpected registered claims: %+v", claims.RegisteredClaims)
	}

	parsed, err := issuer.Parse(access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.UserID != 7 || parsed.Role != models.RoleWarehouseAdmin {
		t.Errorf("unexpected claims: %+v", parsed)
	}

	if _, err := issuer.Parse(access, TokenTypeRefresh); err == nil {
		t.Error("expected token type mismatch to fail")
	}

	other := newTestIssuer(t, "other-secret", "depotdesk", time.Minute, time.Hour)
	if _, err := other.Parse(access, TokenTypeAccess); err == nil {
		t.Error("expected signature check to fail")
	}

	foreign := newTestIssuer(t, "test-secret", "someone-else", time.Minute, time.Hour)
	if _, err := foreign.Parse(access, TokenTypeAccess); err == nil {
		t.Error("expected issuer check to fail")
	}
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", "depotdesk", time.Minute, time.Hour)
	user := &models.User{ID: 1, Email: "ops@example.com"}

	access, _, _ := issuer.Issue(user, TokenTypeAccess)
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := issuer.Parse(access, TokenTypeAccess); err == nil {
		t.Error("expected expired access token to fail")
	}
}

func TestTokenIssuer_UniqueJTI(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", "depotdesk", time.Minute, time.Hour)
	user := &models.User{ID: 1}

	_, a, _ := issuer.Issue(user, TokenTypeRefresh)
	_, b, _ := issuer.Issue(user, TokenTypeRefresh)
	if a.ID == b.ID {
		t.Error("expected distinct token IDs")
	}
}

func TestTokenIssuer_RefreshKeyDiffers(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", "depotdesk", time.Minute, time.Hour)
	if string(issuer.keys[TokenTypeAccess]) == string(issuer.keys[TokenTypeRefresh]) {
		t.Error("access and refresh tokens must be signed with different keys")
	}
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	if _, err := NewTokenIssuer("", "depotdesk", time.Minute, time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
