package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/depotdesk/depotdesk/internal/audit"
	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

// UserService manages administrative accounts.
type UserService struct {
	db    *gorm.DB
	store *Store[models.User]
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, store: NewStore[models.User](db)}
}

// List returns all active users ordered by id.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx, "id ASC")
}

// Get returns a single user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Get(ctx, id)
}

// emailTaken reports whether email belongs to a user other than exceptID.
// Soft-deleted users still hold their address.
func (s *UserService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// Create provisions a user with a hashed password.
func (s *UserService) Create(ctx context.Context, actor *models.User, in UserCreateInput) (*models.User, error) {
	in.Email = auth.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	taken, err := s.emailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewValidationError("email", "user with this email already exists.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleSupportStaff
	}

	u := models.User{Email: in.Email, Name: in.Name, Role: role, PasswordHash: hash}
	if err := s.store.Create(ctx, &u); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actorID(actor), audit.ActionCreateUser, audit.Resource("user", u.ID), map[string]interface{}{
		"email": u.Email,
		"role":  u.Role,
	})
	return &u, nil
}

// Update replaces a user's profile and optionally the password.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, in UserUpdateInput) (*models.User, error) {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Email = auth.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if verr := validateInput(in); verr != nil {
		return nil, verr
	}

	taken, err := s.emailTaken(ctx, in.Email, u.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewValidationError("email", "user with this email already exists.")
	}

	u.Email, u.Name, u.Role = in.Email, in.Name, in.Role
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.store.Save(ctx, u); err != nil {
		return nil, err
	}

	audit.LogAction(s.db, actorID(actor), audit.ActionUpdateUser, audit.Resource("user", u.ID), map[string]interface{}{
		"role":             u.Role,
		"password_changed": in.Password != "",
	})
	return u, nil
}

// Delete soft-deletes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if actor != nil && actor.ID == id {
		return NewValidationError("non_field_errors", "You cannot delete your own account.")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	audit.LogAction(s.db, actorID(actor), audit.ActionDeleteUser, audit.Resource("user", id), nil)
	return nil
}

// actorID is 0 for operations run from the command line.
func actorID(actor *models.User) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}
