package service

import (
	"context"
	"strings"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

// WarehouseService manages warehouses.
type WarehouseService struct {
	db    *gorm.DB
	store *Store[models.Warehouse]
}

// NewWarehouseService creates a new WarehouseService.
func NewWarehouseService(db *gorm.DB) *WarehouseService {
	return &WarehouseService{db: db, store: NewStore[models.Warehouse](db)}
}

// List returns all warehouses ordered by id.
func (s *WarehouseService) List(ctx context.Context) ([]models.Warehouse, error) {
	return s.store.List(ctx, "id ASC")
}

// Get returns a single warehouse by ID.
func (s *WarehouseService) Get(ctx context.Context, id uint) (*models.Warehouse, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new warehouse.
func (s *WarehouseService) Create(ctx context.Context, actor *models.User, in WarehouseInput) (*models.Warehouse, error) {
	in.City = strings.TrimSpace(in.City)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	w := models.Warehouse{City: in.City, Latitude: *in.Latitude, Longitude: *in.Longitude}
	if err := s.store.Create(ctx, &w); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionCreateWarehouse, audit.Resource("warehouse", w.ID), map[string]interface{}{
		"city": w.City,
	})
	return &w, nil
}

// Update replaces every writable field of a warehouse.
func (s *WarehouseService) Update(ctx context.Context, actor *models.User, id uint, in WarehouseInput) (*models.Warehouse, error) {
	w, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.City = strings.TrimSpace(in.City)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	w.City, w.Latitude, w.Longitude = in.City, *in.Latitude, *in.Longitude
	if err := s.store.Save(ctx, w); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actor.ID, audit.ActionUpdateWarehouse, audit.Resource("warehouse", w.ID), nil)
	return w, nil
}

// Delete removes a warehouse.
func (s *WarehouseService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogAction(s.db, actor.ID, audit.ActionDeleteWarehouse, audit.Resource("warehouse", id), nil)
	return nil
}
