package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the flat category that decides which endpoints a user may call
type Role string

const (
	RolePlatformAdmin  Role = "platform_admin"
	RoleSupportStaff   Role = "support_staff"
	RoleWarehouseAdmin Role = "warehouse_admin"
)

// Roles lists every valid role in display order
var Roles = []Role{RolePlatformAdmin, RoleSupportStaff, RoleWarehouseAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name, e.g. "Platform Admin"
func (r Role) Label() string {
	// Casers carry state, so one is built per call
	return cases.Title(language.English).String(strings.ReplaceAll(string(r), "_", " "))
}
