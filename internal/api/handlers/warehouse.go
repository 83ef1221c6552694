package handlers

import (
	"net/http"

	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse endpoints
type WarehouseHandler struct {
	svc *service.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(svc *service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

// ListWarehouses godoc
// @Summary List warehouses
// @Tags warehouses
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Warehouse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /warehouses/ [get]
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetWarehouse godoc
// @Summary Get a warehouse
// @Tags warehouses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Warehouse ID"
// @Success 200 {object} models.Warehouse
// @Failure 404
// @Router /warehouses/{id}/ [get]
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
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

// CreateWarehouse godoc
// @Summary Create a warehouse
// @Tags warehouses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param warehouse body service.WarehouseInput true "Warehouse"
// @Success 201 {object} models.Warehouse
// @Failure 400 {object} FieldErrors
// @Router /warehouses/ [post]
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var in service.WarehouseInput
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

// UpdateWarehouse godoc
// @Summary Replace a warehouse
// @Tags warehouses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Warehouse ID"
// @Param warehouse body service.WarehouseInput true "Warehouse"
// @Success 200 {object} models.Warehouse
// @Failure 400 {object} FieldErrors
// @Failure 404
// @Router /warehouses/{id}/ [put]
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in service.WarehouseInput
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

// DeleteWarehouse godoc
// @Summary Delete a warehouse
// @Tags warehouses
// @Security BearerAuth
// @Param id path int true "Warehouse ID"
// @Success 204
// @Failure 404
// @Router /warehouses/{id}/ [delete]
func (h *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
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
