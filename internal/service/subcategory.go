package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

// SubCategoryService manages subcategories.
type SubCategoryService struct {
	db    *gorm.DB
	store *Store[models.SubCategory]
}

// NewSubCategoryService creates a new SubCategoryService.
func NewSubCategoryService(db *gorm.DB) *SubCategoryService {
	return &SubCategoryService{db: db, store: NewStore[models.SubCategory](db, "Category")}
}

func subCategoryView(sc *models.SubCategory) SubCategoryView {
	return SubCategoryView{SubCategory: *sc, CategoryName: sc.Category.Name}
}

// List returns all subcategories ordered by id.
func (s *SubCategoryService) List(ctx context.Context) ([]SubCategoryView, error) {
	items, err := s.store.List(ctx, "id ASC")
	if err != nil {
		return nil, err
	}

	views := make([]SubCategoryView, 0, len(items))
	for i := range items {
		views = append(views, subCategoryView(&items[i]))
	}
	return views, nil
}

// Get returns a single subcategory by ID.
func (s *SubCategoryService) Get(ctx context.Context, id uint) (*SubCategoryView, error) {
	sc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := subCategoryView(sc)
	return &view, nil
}

// validate checks tags and that the parent category exists.
func (s *SubCategoryService) validate(ctx context.Context, in *SubCategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if verr := validateInput(*in); verr != nil {
		return nil, verr
	}

	var parent models.Category
	err := s.db.WithContext(ctx).First(&parent, *in.Category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewValidationError("category", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.Category))
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &parent, nil
}

// Create validates and stores a new subcategory.
func (s *SubCategoryService) Create(ctx context.Context, actor *models.User, in SubCategoryInput) (*SubCategoryView, error) {
	parent, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	sc := models.SubCategory{Name: in.Name, CategoryID: parent.ID, Description: in.Description}
	if err := s.store.Create(ctx, &sc); err != nil {
		return nil, err
	}
	sc.Category = *parent

	audit.LogAction(s.db, actor.ID, audit.ActionCreateSubCategory, audit.Resource("subcategory", sc.ID), map[string]interface{}{
		"name":     sc.Name,
		"category": parent.ID,
	})
	view := subCategoryView(&sc)
	return &view, nil
}

// Update replaces name, parent and description.
func (s *SubCategoryService) Update(ctx context.Context, actor *models.User, id uint, in SubCategoryInput) (*SubCategoryView, error) {
	sc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	parent, err := s.validate(ctx, &in)
	if err != nil {
		return nil, err
	}

	sc.Name, sc.CategoryID, sc.Description = in.Name, parent.ID, in.Description
	sc.Category = *parent
	if err := s.store.Save(ctx, sc); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionUpdateSubCategory, audit.Resource("subcategory", sc.ID), nil)
	view := subCategoryView(sc)
	return &view, nil
}

// Delete removes a subcategory.
func (s *SubCategoryService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogAction(s.db, actor.ID, audit.ActionDeleteSubCategory, audit.Resource("subcategory", id), nil)
	return nil
}
