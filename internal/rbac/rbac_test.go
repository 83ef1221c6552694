package rbac

import (
	"errors"
	"sort"
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
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	return db
}

func newTestAuthorizer(t *testing.T) (*Authorizer, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	a, err := NewAuthorizer(db)
	if err != nil {
		t.Fatalf("NewAuthorizer: %v", err)
	}
	return a, db
}

func TestAuthorize_RoleAdmission(t *testing.T) {
	a, _ := newTestAuthorizer(t)

	tests := []struct {
		role   models.Role
		policy Policy
		want   bool
	}{
		{models.RolePlatformAdmin, PolicyAdmin, true},
		{models.RoleSupportStaff, PolicyAdmin, true},
		{models.RoleWarehouseAdmin, PolicyAdmin, true},
		{models.Role("guest"), PolicyAdmin, false},
		{models.Role(""), PolicyAdmin, false},
		{models.RolePlatformAdmin, PolicyPlatformAdmin, true},
		{models.RoleSupportStaff, PolicyPlatformAdmin, false},
		{models.RoleWarehouseAdmin, PolicyPlatformAdmin, false},
		{models.RolePlatformAdmin, Policy("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.policy), func(t *testing.T) {
			got, err := a.Authorize(&models.User{Role: tt.role}, tt.policy)
			if err != nil {
				t.Fatalf("Authorize: %v", err)
			}
			if got != tt.want {
				t.Errorf("Authorize(%s, %s) = %v, want %v", tt.role, tt.policy, got, tt.want)
			}
		})
	}
}

func TestAuthorize_NilUser(t *testing.T) {
	a, _ := newTestAuthorizer(t)

	got, err := a.Authorize(nil, PolicyAdmin)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if got {
		t.Error("nil user must be denied")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	a, db := newTestAuthorizer(t)

	if err := a.Seed(); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	// A fresh authorizer over the same table must not duplicate rows either
	if _, err := NewAuthorizer(db); err != nil {
		t.Fatalf("NewAuthorizer on seeded db: %v", err)
	}

	var count int64
	db.Table("casbin_rule").Count(&count)
	if count != 4 {
		t.Errorf("expected 4 policy rows, got %d", count)
	}
}

func TestAllowedRoles(t *testing.T) {
	a, _ := newTestAuthorizer(t)

	roles, err := a.AllowedRoles(PolicyAdmin)
	if err != nil {
		t.Fatalf("AllowedRoles: %v", err)
	}
	got := make([]string, len(roles))
	for i, r := range roles {
		got[i] = string(r)
	}
	sort.Strings(got)

	want := []string{"platform_admin", "support_staff", "warehouse_admin"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestRequire(t *testing.T) {
	a, _ := newTestAuthorizer(t)

	admin := &models.User{ID: 1, Role: models.RolePlatformAdmin}
	staff := &models.User{ID: 2, Role: models.RoleSupportStaff}

	if err := a.Require(admin, PolicyPlatformAdmin); err != nil {
		t.Errorf("platform admin denied: %v", err)
	}
	if err := a.Require(staff, PolicyPlatformAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for support staff, got %v", err)
	}
	if err := a.Require(nil, PolicyAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for nil user, got %v", err)
	}
}
