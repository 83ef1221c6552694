package handlers

import (
	"net/http"

	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
)

// AnnouncementHandler handles announcement endpoints
type AnnouncementHandler struct {
	svc *service.AnnouncementService
}

// NewAnnouncementHandler creates a new AnnouncementHandler
func NewAnnouncementHandler(svc *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

// ListAnnouncements godoc
// @Summary List announcements, newest first
// @Tags announcements
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Announcement
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /announcements/ [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetAnnouncement godoc
// @Summary Get an announcement
// @Tags announcements
// @Security BearerAuth
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} models.Announcement
// @Failure 404
// @Router /announcements/{id}/ [get]
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
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

// CreateAnnouncement godoc
// @Summary Create an announcement
// @Tags announcements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param announcement body service.AnnouncementInput true "Announcement (created_by is set from the caller)"
// @Success 201 {object} models.Announcement
// @Failure 400 {object} FieldErrors
// @Router /announcements/ [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var in service.AnnouncementInput
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

// UpdateAnnouncement godoc
// @Summary Replace an announcement
// @Tags announcements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param announcement body service.AnnouncementInput true "Announcement (created_by is set from the caller)"
// @Success 200 {object} models.Announcement
// @Failure 400 {object} FieldErrors
// @Failure 404
// @Router /announcements/{id}/ [put]
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in service.AnnouncementInput
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

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags announcements
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 204
// @Failure 404
// @Router /announcements/{id}/ [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
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
