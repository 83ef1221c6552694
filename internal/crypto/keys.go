// Package crypto derives purpose-bound keys from the configured secret.
package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeyPrefix namespaces every derivation label
const KeyPrefix = "depotdesk/v1/"

// DeriveKey derives a 32-byte key from secret for a single purpose using
// HKDF-SHA256. Distinct purposes yield independent keys from the same secret.
func DeriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("crypto: secret must not be empty")
	}
	if purpose == "" {
		return nil, fmt.Errorf("crypto: purpose must not be empty")
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(KeyPrefix+purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("crypto: hkdf key derivation failed: %w", err)
	}
	return key, nil
}
