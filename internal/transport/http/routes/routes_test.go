package routes

import (
	"strings"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
)

func TestPermissionTableUsesCatalogActions(t *testing.T) {
	catalog := make(map[string]struct{})
	for _, action := range rbac.All() {
		catalog[action] = struct{}{}
	}

	for key, perms := range routePermissions {
		if len(perms) == 0 {
			t.Errorf("route %q has an empty permission list", key)
		}
		for _, perm := range perms {
			if _, ok := catalog[perm]; !ok {
				t.Errorf("route %q requires %q, which is not in the catalog", key, perm)
			}
		}
	}
}

func TestPermissionTableKeysAreWellFormed(t *testing.T) {
	methods := map[string]struct{}{
		"GET": {}, "POST": {}, "PUT": {}, "PATCH": {}, "DELETE": {},
	}

	for key := range routePermissions {
		method, path, ok := strings.Cut(key, " ")
		if !ok {
			t.Errorf("route key %q is not of the form \"METHOD /path\"", key)
			continue
		}
		if _, known := methods[method]; !known {
			t.Errorf("route key %q uses unknown method %q", key, method)
		}
		if !strings.HasPrefix(path, "/") {
			t.Errorf("route key %q path must start with /", key)
		}
	}
}

func TestPermissionsFor(t *testing.T) {
	perms, ok := PermissionsFor("POST", "/races")
	if !ok {
		t.Fatal("expected POST /races to be guarded")
	}
	if len(perms) != 1 || perms[0] != rbac.PermRacesCreate {
		t.Fatalf("POST /races permissions = %v, want [%s]", perms, rbac.PermRacesCreate)
	}

	if _, ok := PermissionsFor("GET", "/auth/me"); ok {
		t.Error("GET /auth/me must not appear in the permission table; it is guarded by authentication only")
	}
}

func TestLifecycleEndpointRequiresPublish(t *testing.T) {
	perms, ok := PermissionsFor("PUT", "/races/:id/status")
	if !ok {
		t.Fatal("expected PUT /races/:id/status to be guarded")
	}
	if len(perms) != 1 || perms[0] != rbac.PermRacesPublish {
		t.Fatalf("status change permissions = %v, want [%s]", perms, rbac.PermRacesPublish)
	}
}

func TestRequiresPanicsOnUnknownRoute(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a route missing from the permission table")
		}
	}()
	requires("GET", "/not/in/the/table")
}
