package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

// Audit actions constants
const (
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
	ActionRefresh     = "refresh_token"

	ActionCreateUser = "create_user"
	ActionUpdateUser = "update_user"
	ActionDeleteUser = "delete_user"

	ActionCreateWarehouse = "create_warehouse"
	ActionUpdateWarehouse = "update_warehouse"
	ActionDeleteWarehouse = "delete_warehouse"

	ActionCreateAnnouncement = "create_announcement"
	ActionUpdateAnnouncement = "update_announcement"
	ActionDeleteAnnouncement = "delete_announcement"

	ActionCreateCategory = "create_category"
	ActionUpdateCategory = "update_category"
	ActionDeleteCategory = "delete_category"

	ActionCreateSubCategory = "create_subcategory"
	ActionUpdateSubCategory = "update_subcategory"
	ActionDeleteSubCategory = "delete_subcategory"
)

// Resource formats a resource reference such as "warehouse:12"
func Resource(kind string, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// LogAction records an audit log entry
func LogAction(db *gorm.DB, userID uint, action, resource string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil || details == nil {
		detailsJSON = []byte("{}")
	}

	entry := models.AuditLog{
		UserID:      userID,
		Action:      action,
		Resource:    resource,
		DetailsJSON: string(detailsJSON),
		Timestamp:   time.Now().UTC(),
	}

	if err := db.Create(&entry).Error; err != nil {
		// Audit failures never fail the request that triggered them
		slog.Error("Failed to write audit log", "action", action, "resource", resource, "error", err)
		return err
	}
	return nil
}

// Filter narrows an audit log listing
type Filter struct {
	UserID uint
	Action string
	Limit  int
}

// List returns audit entries newest first
func List(ctx context.Context, db *gorm.DB, f Filter) ([]models.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := db.WithContext(ctx).Order("timestamp DESC, id DESC").Limit(limit)
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
