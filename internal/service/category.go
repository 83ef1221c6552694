package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

// CategoryService manages categories.
type CategoryService struct {
	db    *gorm.DB
	store *Store[models.Category]
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db, store: NewStore[models.Category](db)}
}

// List returns all categories ordered by id.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.store.List(ctx, "id ASC")
}

// Get returns a single category by ID.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new category.
func (s *CategoryService) Create(ctx context.Context, actor *models.User, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	c := models.Category{Name: in.Name, Description: in.Description}
	if err := s.store.Create(ctx, &c); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionCreateCategory, audit.Resource("category", c.ID), map[string]interface{}{
		"name": c.Name,
	})
	return &c, nil
}

// Update replaces name and description.
func (s *CategoryService) Update(ctx context.Context, actor *models.User, id uint, in CategoryInput) (*models.Category, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	c.Name, c.Description = in.Name, in.Description
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionUpdateCategory, audit.Resource("category", c.ID), nil)
	return c, nil
}

// Delete removes a category that has no subcategories.
func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}

	var children int64
	if err := s.db.WithContext(ctx).Model(&models.SubCategory{}).Where("category_id = ?", id).Count(&children).Error; err != nil {
		return fmt.Errorf("count subcategories: %w", err)
	}
	if children > 0 {
		return NewValidationError("category", fmt.Sprintf("Cannot delete this category because it has %d subcategories.", children))
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogAction(s.db, actor.ID, audit.ActionDeleteCategory, audit.Resource("category", id), nil)
	return nil
}
