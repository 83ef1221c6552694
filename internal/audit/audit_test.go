package audit

import (
	"context"
	"testing"

	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestLogAction_StoresDetails(t *testing.T) {
	db := setupTestDB(t)

	err := LogAction(db, 3, ActionCreateWarehouse, Resource("warehouse", 12), map[string]interface{}{"city": "Oslo"})
	if err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	var entry models.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("load entry: %v", err)
	}
	if entry.UserID != 3 || entry.Action != ActionCreateWarehouse || entry.Resource != "warehouse:12" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.DetailsJSON != `{"city":"Oslo"}` {
		t.Errorf("unexpected details: %s", entry.DetailsJSON)
	}
}

func TestLogAction_NilDetails(t *testing.T) {
	db := setupTestDB(t)

	if err := LogAction(db, 1, ActionLogout, Resource("user", 1), nil); err != nil {
		t.Fatalf("LogAction: %v", err)
	}

	var entry models.AuditLog
	db.First(&entry)
	if entry.DetailsJSON != "{}" {
		t.Errorf("expected empty object, got %s", entry.DetailsJSON)
	}
}

func TestList_FiltersAndOrders(t *testing.T) {
	db := setupTestDB(t)
	LogAction(db, 1, ActionLogin, Resource("user", 1), nil)
	LogAction(db, 2, ActionLogin, Resource("user", 2), nil)
	LogAction(db, 1, ActionCreateCategory, Resource("category", 5), nil)

	all, err := List(context.Background(), db, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Action != ActionCreateCategory {
		t.Errorf("expected newest entry first, got %s", all[0].Action)
	}

	mine, _ := List(context.Background(), db, Filter{UserID: 1})
	if len(mine) != 2 {
		t.Errorf("expected 2 entries for user 1, got %d", len(mine))
	}

	logins, _ := List(context.Background(), db, Filter{Action: ActionLogin, Limit: 1})
	if len(logins) != 1 {
		t.Errorf("expected limit to apply, got %d", len(logins))
	}
}
