package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/depotdesk/depotdesk/internal/crypto"
	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents JWT claims
type Claims struct {
	UserID    uint        `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	TokenType TokenType   `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens. Each token type is signed
// with its own key derived from the configured secret.
type TokenIssuer struct {
	keys       map[TokenType][]byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates a token issuer
func NewTokenIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	keys := make(map[TokenType][]byte, 2)
	for _, tokenType := range []TokenType{TokenTypeAccess, TokenTypeRefresh} {
		key, err := crypto.DeriveKey(secret, "jwt-"+string(tokenType))
		if err != nil {
			return nil, fmt.Errorf("deriving %s signing key: %w", tokenType, err)
		}
		keys[tokenType] = key
	}

	return &TokenIssuer{
		keys:       keys,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token of the given type for user
func (t *TokenIssuer) Issue(user *models.User, tokenType TokenType) (string, *Claims, error) {
	ttl := t.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = t.refreshTTL
	}

	now := t.now()
	claims := &Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.keys[tokenType])
	if err != nil {
		return "", nil, fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, claims, nil
}

// Parse validates signature, expiry, issuer and token type
func (t *TokenIssuer) Parse(tokenString string, want TokenType) (*Claims, error) {
	key, ok := t.keys[want]
	if !ok {
		return nil, fmt.Errorf("unknown token type %q", want)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("expected %s token, got %q", want, claims.TokenType)
	}
	if claims.ID == "" || claims.UserID == 0 {
		return nil, fmt.Errorf("token is missing identity claims")
	}
	return claims, nil
}
