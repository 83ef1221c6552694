package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/gin-gonic/gin"
)

const oidcStateCookie = "oidc_state"

// OIDCLogin godoc
// @Summary Initiate OIDC login
// @Description Redirects user to OIDC provider for authentication
// @Tags auth
// @Success 307 {string} string "Redirect to OIDC provider"
// @Router /auth/oidc/login [get]
func OIDCLogin(oidcAuth *auth.OIDCAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := generateRandomState()
		if err != nil {
			slog.Error("Failed to generate state", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
			return
		}

		c.SetCookie(oidcStateCookie, state, 600, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, oidcAuth.GetAuthURL(state))
	}
}

// OIDCCallback godoc
// @Summary Handle OIDC callback
// @Description Verify the provider login and issue tokens for the matching account
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State parameter"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/oidc/callback [get]
func OIDCCallback(oidcAuth *auth.OIDCAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := c.Query("state")
		storedState, err := c.Cookie(oidcStateCookie)
		if err != nil || state == "" || state != storedState {
			slog.Warn("Invalid OIDC state")
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Invalid state parameter"})
			return
		}
		c.SetCookie(oidcStateCookie, "", -1, "/", "", false, true)

		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "Missing authorization code"})
			return
		}

		resp, err := oidcAuth.HandleCallback(c.Request.Context(), code)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownIdentity) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Invalid credentials"})
				return
			}
			slog.Error("OIDC callback failed", "error", err)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Single sign-on failed"})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// generateRandomState generates a random state string for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
