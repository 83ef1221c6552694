package service

import "github.com/depotdesk/depotdesk/internal/models"

// WarehouseInput is the writable part of a warehouse.
// Coordinates are pointers so that 0 is distinguishable from missing.
type WarehouseInput struct {
	City      string   `json:"city" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// AnnouncementInput is the writable part of an announcement.
// created_by is not accepted from clients.
type AnnouncementInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// CategoryInput is the writable part of a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// SubCategoryInput is the writable part of a subcategory.
type SubCategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Category    *uint  `json:"category" validate:"required"`
	Description string `json:"description"`
}

// SubCategoryView is a subcategory with its parent's name.
type SubCategoryView struct {
	models.SubCategory
	CategoryName string `json:"category_name"`
}

// UserCreateInput holds parameters for provisioning a user.
type UserCreateInput struct {
	Email    string      `json:"email" validate:"required,email,max=254"`
	Name     string      `json:"name" validate:"required,max=255"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=platform_admin support_staff warehouse_admin"`
	Password string      `json:"password" validate:"required,min=8,max=128"`
}

// UserUpdateInput replaces a user's profile. An empty password keeps the current one.
type UserUpdateInput struct {
	Email    string      `json:"email" validate:"required,email,max=254"`
	Name     string      `json:"name" validate:"required,max=255"`
	Role     models.Role `json:"role" validate:"required,oneof=platform_admin support_staff warehouse_admin"`
	Password string      `json:"password" validate:"omitempty,min=8,max=128"`
}
