package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ErrorResponse is the body of every non-validation error
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldErrors maps a field name to its validation messages
type FieldErrors map[string][]string

// handleServiceError maps service-layer errors to HTTP status codes.
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, FieldErrors(validationErr.Fields))
		return
	}
	slog.Error("unhandled service error", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error"})
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer cannot name a row, so it is answered with 404.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into obj. An empty body is treated as
// an empty object so missing fields are reported as such.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return true
	}

	if verr := service.FromBindingError(err); verr != nil {
		c.JSON(http.StatusBadRequest, FieldErrors(verr.Fields))
		return false
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "JSON parse error - " + err.Error()})
	return false
}

// currentUser returns the user placed in the context by the auth middleware
func currentUser(c *gin.Context) *models.User {
	user, err := auth.UserFromContext(c)
	if err != nil {
		return nil
	}
	return user
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports whether the API and its database are reachable
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func HealthCheck(pinger func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			if err := pinger(); err != nil {
				slog.Error("Health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
