package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/rbac"
	"github.com/gin-gonic/gin"
)

// RequirePolicy admits the request only when the authenticated user's role
// passes policy. It must run after the auth middleware.
func RequirePolicy(authz *rbac.Authorizer, policy rbac.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.UserFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		if err := authz.Require(user, policy); err != nil {
			if errors.Is(err, rbac.ErrForbidden) {
				slog.Warn("Permission denied", "policy", policy, "user_id", user.ID, "role", user.Role, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
				return
			}
			slog.Error("Policy check failed", "policy", policy, "user_id", user.ID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}

		c.Next()
	}
}
