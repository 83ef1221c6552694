package rbac

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/depotdesk/depotdesk/internal/models"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelConf string

// ErrForbidden is returned when a role is not admitted by a policy
var ErrForbidden = errors.New("forbidden")

// Policy names a set of roles allowed to call a group of endpoints
type Policy string

const (
	// PolicyAdmin admits every administrative role
	PolicyAdmin Policy = "admin"
	// PolicyPlatformAdmin admits platform admins only
	PolicyPlatformAdmin Policy = "platform_admin"
)

// actAccess is the only action; policies are whole-endpoint gates
const actAccess = "access"

// DefaultPolicies maps each policy to the roles it admits
var DefaultPolicies = map[Policy][]models.Role{
	PolicyAdmin:         {models.RolePlatformAdmin, models.RoleSupportStaff, models.RoleWarehouseAdmin},
	PolicyPlatformAdmin: {models.RolePlatformAdmin},
}

// Authorizer decides whether a user's role passes a policy
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer creates a casbin enforcer backed by the casbin_rule table
// and seeds the default policies
func NewAuthorizer(db *gorm.DB) (*Authorizer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	a := &Authorizer{enforcer: e}
	if err := a.Seed(); err != nil {
		return nil, err
	}

	slog.Info("RBAC enforcer initialized")
	return a, nil
}

// Seed adds any missing default policy rows. Running it twice is a no-op.
func (a *Authorizer) Seed() error {
	added := 0
	for policy, roles := range DefaultPolicies {
		for _, role := range roles {
			ok, err := a.enforcer.AddPolicy(string(role), string(policy), actAccess)
			if err != nil {
				return fmt.Errorf("failed to seed policy %s for %s: %w", policy, role, err)
			}
			if ok {
				added++
			}
		}
	}
	if added > 0 {
		slog.Info("Seeded RBAC policies", "rules", added)
	}
	return nil
}

// Authorize reports whether user may call endpoints guarded by policy.
// A nil user is always denied.
func (a *Authorizer) Authorize(user *models.User, policy Policy) (bool, error) {
	if user == nil {
		return false, nil
	}
	return a.enforcer.Enforce(string(user.Role), string(policy), actAccess)
}

// Require is Authorize as an error: ErrForbidden when user is denied
func (a *Authorizer) Require(user *models.User, policy Policy) error {
	allowed, err := a.Authorize(user, policy)
	if err != nil {
		return fmt.Errorf("enforcing policy %s: %w", policy, err)
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

// AllowedRoles lists the roles admitted by policy
func (a *Authorizer) AllowedRoles(policy Policy) ([]models.Role, error) {
	rules, err := a.enforcer.GetFilteredPolicy(1, string(policy), actAccess)
	if err != nil {
		return nil, err
	}

	roles := make([]models.Role, 0, len(rules))
	for _, rule := range rules {
		if len(rule) >= 1 {
			roles = append(roles, models.Role(rule[0]))
		}
	}
	return roles, nil
}
