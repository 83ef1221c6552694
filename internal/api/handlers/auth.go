package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, token refresh, logout and the current user
type AuthHandler struct {
	auth auth.Authenticator
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator auth.Authenticator) *AuthHandler {
	return &AuthHandler{auth: authenticator}
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return an access and refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body auth.LoginRequest true "Login credentials"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} FieldErrors
// @Failure 401 {object} ErrorResponse
// @Router /auth/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid credentials"})
			return
		}
		slog.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchange a refresh token that has not been revoked for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body auth.RefreshRequest true "Refresh token"
// @Success 200 {object} auth.RefreshResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/refresh/ [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, auth.RefreshResponse{Token: token})
}

// Logout godoc
// @Summary Logout
// @Description Revoke the given refresh token
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Param token body auth.RefreshRequest true "Refresh token to revoke"
// @Success 205
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req auth.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), currentUser(c), req.RefreshToken); err != nil {
		respondTokenError(c, err)
		return
	}

	c.Status(http.StatusResetContent)
}

// CurrentUser godoc
// @Summary Current user
// @Description Return the authenticated user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} auth.UserView
// @Failure 401 {object} ErrorResponse
// @Router /auth/user/ [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Authentication credentials were not provided."})
		return
	}
	c.JSON(http.StatusOK, auth.NewUserView(user))
}

func respondTokenError(c *gin.Context, err error) {
	if errors.Is(err, auth.ErrInvalidToken) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid token"})
		return
	}
	slog.Error("Token operation failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
}
