package crypto

import (
	"bytes"
	"testing"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestDeriveKey(t *testing.T) {
	key, err := DeriveKey(testSecret, "jwt-access")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}

	// Deterministic: same secret and purpose give the same key.
	again, _ := DeriveKey(testSecret, "jwt-access")
	if !bytes.Equal(key, again) {
		t.Fatal("DeriveKey not deterministic")
	}
}

func TestDeriveKey_PurposeSeparation(t *testing.T) {
	access, _ := DeriveKey(testSecret, "jwt-access")
	refresh, _ := DeriveKey(testSecret, "jwt-refresh")
	if bytes.Equal(access, refresh) {
		t.Fatal("different purposes must give different keys")
	}

	other, _ := DeriveKey("another-secret", "jwt-access")
	if bytes.Equal(access, other) {
		t.Fatal("different secrets must give different keys")
	}
}

func TestDeriveKey_Empty(t *testing.T) {
	if _, err := DeriveKey("", "jwt-access"); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := DeriveKey(testSecret, ""); err == nil {
		t.Error("expected error for empty purpose")
	}
}
