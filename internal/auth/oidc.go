package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/config"
	"github.com/depotdesk/depotdesk/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// ErrUnknownIdentity is returned when the provider vouches for an email that
// has no account. Accounts are never created from single sign-on.
var ErrUnknownIdentity = errors.New("no account for identity")

// OIDCAuthenticator exchanges a provider login for a local token pair
type OIDCAuthenticator struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
	db       *gorm.DB
	jwt      *JWTAuthenticator
}

// NewOIDCAuthenticator discovers the provider and prepares the code exchange
func NewOIDCAuthenticator(ctx context.Context, cfg config.OIDCConfig, db *gorm.DB, jwtAuth *JWTAuthenticator) (*OIDCAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCAuthenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		db:       db,
		jwt:      jwtAuth,
	}, nil
}

// GetAuthURL returns the URL to redirect users to for authentication
func (a *OIDCAuthenticator) GetAuthURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// HandleCallback exchanges the code, verifies the ID token and logs in the
// account whose email matches a verified provider email
func (a *OIDCAuthenticator) HandleCallback(ctx context.Context, code string) (*LoginResponse, error) {
	oauth2Token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token in token response")
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Sub           string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return a.loginByEmail(ctx, claims.Email, claims.EmailVerified, claims.Sub)
}

func (a *OIDCAuthenticator) loginByEmail(ctx context.Context, email string, verified bool, sub string) (*LoginResponse, error) {
	if email == "" || !verified {
		slog.Warn("OIDC login without a verified email", "sub", sub)
		return nil, ErrUnknownIdentity
	}

	var user models.User
	err := a.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Warn("OIDC login for unknown email", "email", email, "sub", sub)
		return nil, ErrUnknownIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	resp, err := a.jwt.IssuePair(&user)
	if err != nil {
		return nil, err
	}

	audit.LogAction(a.db, user.ID, audit.ActionLogin, audit.Resource("user", user.ID), map[string]interface{}{"method": "oidc"})
	slog.Info("User logged in via OIDC", "user_id", user.ID)
	return resp, nil
}
