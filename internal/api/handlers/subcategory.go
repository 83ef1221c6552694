package handlers

import (
	"net/http"

	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// SubCategoryHandler handles subcategory endpoints
type SubCategoryHandler struct {
	svc *service.SubCategoryService
}

// NewSubCategoryHandler creates a new SubCategoryHandler
func NewSubCategoryHandler(svc *service.SubCategoryService) *SubCategoryHandler {
	return &SubCategoryHandler{svc: svc}
}

// ListSubCategories godoc
// @Summary List subcategories
// @Tags subcategories
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.SubCategoryView
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /subcategories/ [get]
func (h *SubCategoryHandler) ListSubCategories(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetSubCategory godoc
// @Summary Get a subcategory
// @Tags subcategories
// @Security BearerAuth
// @Produce json
// @Param id path int true "SubCategory ID"
// @Success 200 {object} service.SubCategoryView
// @Failure 404
// @Router /subcategories/{id}/ [get]
func (h *SubCategoryHandler) GetSubCategory(c *gin.Context) {
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

// CreateSubCategory godoc
// @Summary Create a subcategory
// @Tags subcategories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param subcategory body service.SubCategoryInput true "SubCategory"
// @Success 201 {object} service.SubCategoryView
// @Failure 400 {object} FieldErrors
// @Router /subcategories/ [post]
func (h *SubCategoryHandler) CreateSubCategory(c *gin.Context) {
	var in service.SubCategoryInput
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

// UpdateSubCategory godoc
// @Summary Replace a subcategory
// @Tags subcategories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "SubCategory ID"
// @Param subcategory body service.SubCategoryInput true "SubCategory"
// @Success 200 {object} service.SubCategoryView
// @Failure 400 {object} FieldErrors
// @Failure 404
// @Router /subcategories/{id}/ [put]
func (h *SubCategoryHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in service.SubCategoryInput
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

// DeleteSubCategory godoc
// @Summary Delete a subcategory
// @Tags subcategories
// @Security BearerAuth
// @Param id path int true "SubCategory ID"
// @Success 204
// @Failure 404
// @Router /subcategories/{id}/ [delete]
func (h *SubCategoryHandler) DeleteSubCategory(c *gin.Context) {
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
