package auth

import (
	"context"
	"errors"
	"time"

	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/gin-gonic/gin"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when an access token is missing, invalid or expired
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken is returned when a refresh token cannot be used
	ErrInvalidToken = errors.New("invalid token")
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token for /auth/refresh/ and /auth/logout/
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserView `json:"user"`
}

// RefreshResponse carries a newly minted access token
type RefreshResponse struct {
	Token string `json:"token"`
}

// UserView is the public representation of a user
type UserView struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Role        models.Role `json:"role"`
	RoleDisplay string      `json:"role_display"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewUserView builds the public view of u
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		RoleDisplay: u.Role.Label(),
		CreatedAt:   u.CreatedAt,
	}
}

// Authenticator is an interface for authentication providers
type Authenticator interface {
	// Login verifies email and password and issues an access/refresh token pair
	Login(ctx context.Context, email, password string) (*LoginResponse, error)

	// Refresh mints a new access token from a refresh token that is not blacklisted
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout blacklists a refresh token owned by user
	Logout(ctx context.Context, user *models.User, refreshToken string) error

	// CurrentUser resolves the user behind an access token
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)

	// Middleware returns a Gin middleware for authentication
	Middleware() gin.HandlerFunc
}
