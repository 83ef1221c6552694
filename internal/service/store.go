package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a thin gorm repository for one model type.
type Store[M any] struct {
	db       *gorm.DB
	preloads []string
}

// NewStore creates a store; preloads name associations loaded on reads.
func NewStore[M any](db *gorm.DB, preloads ...string) *Store[M] {
	return &Store[M]{db: db, preloads: preloads}
}

func (s *Store[M]) read(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	return q
}

// List returns all rows in the given order, e.g. "id ASC".
func (s *Store[M]) List(ctx context.Context, order string) ([]M, error) {
	items := []M{}
	if err := s.read(ctx).Order(order).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return items, nil
}

// Get returns the row with id or ErrNotFound.
func (s *Store[M]) Get(ctx context.Context, id uint) (*M, error) {
	var item M
	if err := s.read(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}
	return &item, nil
}

// Create inserts item. Associations are never written through.
func (s *Store[M]) Create(ctx context.Context, item *M) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Save updates every column of item.
func (s *Store[M]) Save(ctx context.Context, item *M) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Delete removes the row with id or returns ErrNotFound.
// Models with a DeletedAt field are soft-deleted.
func (s *Store[M]) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(new(M), id)
	if result.Error != nil {
		return fmt.Errorf("delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
