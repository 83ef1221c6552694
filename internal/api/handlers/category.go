package handlers

import (
	"net/http"

	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	svc *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Category
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /categories/ [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.Category
// @Failure 404
// @Router /categories/{id}/ [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param category body service.CategoryInput true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} FieldErrors
// @Router /categories/ [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateCategory godoc
// @Summary Replace a category
// @Tags categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param category body service.CategoryInput true "Category"
// @Success 200 {object} models.Category
// @Failure 400 {object} FieldErrors
// @Failure 404
// @Router /categories/{id}/ [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in service.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404
// @Failure 400 {object} FieldErrors "Category still has subcategories"
// @Router /categories/{id}/ [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
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
