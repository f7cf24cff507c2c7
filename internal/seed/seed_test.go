package seed

import (
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
)

func TestRolePermissionsUseCatalogActions(t *testing.T) {
	catalog := make(map[string]struct{})
	for _, action := range rbac.All() {
		catalog[action] = struct{}{}
	}

	for role, actions := range rolePermissions {
		seen := make(map[string]struct{}, len(actions))
		for _, action := range actions {
			if _, ok := catalog[action]; !ok {
				t.Errorf("role %s grants unknown action %q", role, action)
			}
			if _, dup := seen[action]; dup {
				t.Errorf("role %s grants %q twice", role, action)
			}
			seen[action] = struct{}{}
		}
	}
}

func TestSuperAdminCoversFullCatalog(t *testing.T) {
	granted := make(map[string]struct{})
	for _, action := range rolePermissions[RoleSuperAdmin] {
		granted[action] = struct{}{}
	}

	for _, action := range rbac.All() {
		if _, ok := granted[action]; !ok {
			t.Errorf("%s is missing from %s", action, RoleSuperAdmin)
		}
	}
}
