package handlers

import (
	"net/http"
	"strconv"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditHandler exposes the audit log
type AuditHandler struct {
	db *gorm.DB
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

// ListAuditLogs godoc
// @Summary List audit logs
// @Description Newest first; filter by user_id and action
// @Tags audit
// @Security BearerAuth
// @Produce json
// @Param user_id query int false "Filter by user ID"
// @Param action query string false "Filter by action"
// @Param limit query int false "Maximum entries (default 100, max 500)"
// @Success 200 {array} models.AuditLog
// @Failure 403 {object} ErrorResponse
// @Router /audit-logs/ [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	filter := audit.Filter{Action: c.Query("action")}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, FieldErrors{"user_id": {"A valid integer is required."}})
			return
		}
		filter.UserID = uint(id)
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, FieldErrors{"limit": {"A valid integer is required."}})
			return
		}
		filter.Limit = limit
	}

	logs, err := audit.List(c.Request.Context(), h.db, filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
