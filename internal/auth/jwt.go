package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/auth/blacklist"
	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserContextKey is the key used to store user in Gin context
const UserContextKey = "user"

// JWTAuthenticator implements email/password authentication with
// short-lived access tokens and blacklistable refresh tokens
type JWTAuthenticator struct {
	db        *gorm.DB
	tokens    *TokenIssuer
	blacklist blacklist.Store
}

// NewJWTAuthenticator creates a new JWT authenticator
func NewJWTAuthenticator(db *gorm.DB, tokens *TokenIssuer, store blacklist.Store) *JWTAuthenticator {
	return &JWTAuthenticator{
		db:        db,
		tokens:    tokens,
		blacklist: store,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck spends the same bcrypt work as a real comparison so a
// missing account is not distinguishable by response time
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("depotdesk-timing-equalizer")
	})
	VerifyPassword(dummyHash, password)
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login authenticates a user and returns an access/refresh token pair
func (a *JWTAuthenticator) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = NormalizeEmail(email)

	var user models.User
	result := a.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			burnPasswordCheck(password)
			slog.Warn("Login attempt with unknown email", "email", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	if user.PasswordHash == "" || !VerifyPassword(user.PasswordHash, password) {
		slog.Warn("Login attempt with incorrect password", "user_id", user.ID)
		audit.LogAction(a.db, user.ID, audit.ActionLoginFailed, audit.Resource("user", user.ID), nil)
		return nil, ErrInvalidCredentials
	}

	resp, err := a.IssuePair(&user)
	if err != nil {
		return nil, err
	}

	audit.LogAction(a.db, user.ID, audit.ActionLogin, audit.Resource("user", user.ID), nil)
	slog.Info("User logged in successfully", "user_id", user.ID, "role", user.Role)
	return resp, nil
}

// IssuePair mints a fresh access and refresh token for user
func (a *JWTAuthenticator) IssuePair(user *models.User) (*LoginResponse, error) {
	access, _, err := a.tokens.Issue(user, TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, _, err := a.tokens.Issue(user, TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         NewUserView(user),
	}, nil
}

// Refresh mints a new access token from a refresh token that is not blacklisted
func (a *JWTAuthenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		slog.Debug("Rejected refresh token", "error", err)
		return "", ErrInvalidToken
	}

	revoked, err := a.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		slog.Warn("Blacklisted refresh token presented", "user_id", claims.UserID)
		return "", ErrInvalidToken
	}

	user, err := a.loadUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	access, _, err := a.tokens.Issue(user, TokenTypeAccess)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return access, nil
}

// Logout blacklists a refresh token owned by user
func (a *JWTAuthenticator) Logout(ctx context.Context, user *models.User, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidToken
	}

	claims, err := a.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		slog.Debug("Rejected logout token", "error", err)
		return ErrInvalidToken
	}
	if claims.UserID != user.ID {
		slog.Warn("Logout with another user's refresh token", "user_id", user.ID, "token_user_id", claims.UserID)
		return ErrInvalidToken
	}

	err = a.blacklist.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
	if errors.Is(err, blacklist.ErrAlreadyRevoked) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	audit.LogAction(a.db, user.ID, audit.ActionLogout, audit.Resource("user", user.ID), nil)
	slog.Info("User logged out", "user_id", user.ID)
	return nil
}

// CurrentUser resolves the user behind an access token
func (a *JWTAuthenticator) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := a.tokens.Parse(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := a.loadUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return user, nil
}

func (a *JWTAuthenticator) loadUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := a.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Middleware returns a Gin middleware that requires a valid Bearer access token
func (a *JWTAuthenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		user, err := a.CurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			slog.Warn("Invalid token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// UserFromContext extracts the authenticated user from the Gin context
func UserFromContext(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return nil, ErrUnauthenticated
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, errors.New("invalid user in context")
	}
	return user, nil
}
