package service

import (
	"context"
	"strings"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

// AnnouncementService manages announcements.
// The author is always the acting user; clients cannot choose it.
type AnnouncementService struct {
	db    *gorm.DB
	store *Store[models.Announcement]
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db, store: NewStore[models.Announcement](db)}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return s.store.List(ctx, "created_at DESC, id DESC")
}

// Get returns a single announcement by ID.
func (s *AnnouncementService) Get(ctx context.Context, id uint) (*models.Announcement, error) {
	return s.store.Get(ctx, id)
}

// Create stores an announcement authored by actor.
func (s *AnnouncementService) Create(ctx context.Context, actor *models.User, in AnnouncementInput) (*models.Announcement, error) {
	in.Title = strings.TrimSpace(in.Title)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	a := models.Announcement{Title: in.Title, Content: in.Content, CreatedByID: actor.ID}
	if err := s.store.Create(ctx, &a); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionCreateAnnouncement, audit.Resource("announcement", a.ID), map[string]interface{}{
		"title": a.Title,
	})
	return &a, nil
}

// Update replaces title and content; the author is kept.
func (s *AnnouncementService) Update(ctx context.Context, actor *models.User, id uint, in AnnouncementInput) (*models.Announcement, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	a.Title, a.Content = in.Title, in.Content
	if err := s.store.Save(ctx, a); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionUpdateAnnouncement, audit.Resource("announcement", a.ID), nil)
	return a, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogAction(s.db, actor.ID, audit.ActionDeleteAnnouncement, audit.Resource("announcement", id), nil)
	return nil
}
