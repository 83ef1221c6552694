package handlers

import (
	"net/http"

	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles account management for platform admins
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {array} auth.UserView
// @Failure 403 {object} ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	views := make([]auth.UserView, 0, len(users))
	for i := range users {
		views = append(views, auth.NewUserView(&users[i]))
	}
	c.JSON(http.StatusOK, views)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} auth.UserView
// @Failure 404
// @Router /users/{id}/ [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, auth.NewUserView(user))
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body service.UserCreateInput true "User"
// @Success 201 {object} auth.UserView
// @Failure 400 {object} FieldErrors
// @Router /users/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var in service.UserCreateInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, auth.NewUserView(user))
}

// UpdateUser godoc
// @Summary Replace a user
// @Description An empty password keeps the current one
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body service.UserUpdateInput true "User"
// @Success 200 {object} auth.UserView
// @Failure 400 {object} FieldErrors
// @Failure 404
// @Router /users/{id}/ [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in service.UserUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.svc.Update(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, auth.NewUserView(user))
}

// DeleteUser godoc
// @Summary Deactivate a user
// @Description Soft-deletes the account; it can no longer log in
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 400 {object} FieldErrors
// @Failure 404
// @Router /users/{id}/ [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
