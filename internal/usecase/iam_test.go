package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
)

func newIAMFixture() (*IAMService, *roleRepoMock, *permissionRepoMock, *userRepoMock, *menuCacheMock, *publisherMock) {
	roles := newRoleRepoMock()
	permissions := newPermissionRepoMock()
	users := newUserRepoMock()
	menuCache := newMenuCacheMock()
	events := &publisherMock{}
	return NewIAMService(roles, permissions, users, menuCache, events), roles, permissions, users, menuCache, events
}

func TestCreateRoleGrantsCatalogPermissions(t *testing.T) {
	service, roles, permissions, _, _, _ := newIAMFixture()
	permissions.seed(rbac.PermRacesRead, rbac.PermRacesCreate)

	description := "organizes races"
	role, err := service.CreateRole(context.Background(), CreateRoleInput{
		Name:        "RACE_MANAGER",
		Description: &description,
		Permissions: []string{rbac.PermRacesRead, rbac.PermRacesCreate},
	})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	if role.Name != "RACE_MANAGER" {
		t.Errorf("role name = %q", role.Name)
	}
	if role.Description == nil || *role.Description != description {
		t.Errorf("role description = %v", role.Description)
	}
	if got := len(roles.rolePermissions[role.ID]); got != 2 {
		t.Errorf("expected 2 granted permissions, got %d", got)
	}
}

func TestCreateRoleDuplicateName(t *testing.T) {
	service, _, _, _, _, _ := newIAMFixture()

	if _, err := service.CreateRole(context.Background(), CreateRoleInput{Name: "DUP"}); err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if _, err := service.CreateRole(context.Background(), CreateRoleInput{Name: "DUP"}); !errors.Is(err, ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}
}

func TestGrantPermissionsRejectsUnknownAction(t *testing.T) {
	service, roles, permissions, _, _, _ := newIAMFixture()
	permissions.seed(rbac.PermRacesRead)
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "R"}

	err := service.GrantPermissions(context.Background(), "role-1", []string{"race:action:teleport"})
	if !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestGrantPermissionsUnknownRole(t *testing.T) {
	service, roles, permissions, _, _, _ := newIAMFixture()
	permissions.seed(rbac.PermUsersRead)

	err := service.GrantPermissions(context.Background(), "ghost-role", []string{rbac.PermUsersRead})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
	if len(roles.rolePermissions["ghost-role"]) != 0 {
		t.Fatal("no grant should be written for a missing role")
	}
}

func TestRevokePermissionsUnknownRole(t *testing.T) {
	service, _, permissions, _, _, _ := newIAMFixture()
	permissions.seed(rbac.PermUsersRead)

	err := service.RevokePermissions(context.Background(), "ghost-role", []string{rbac.PermUsersRead})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestGrantAndRevokePermissions(t *testing.T) {
	service, roles, permissions, _, _, _ := newIAMFixture()
	permissions.seed(rbac.PermUsersRead, rbac.PermUsersUpdate)
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "R"}

	if err := service.GrantPermissions(context.Background(), "role-1", []string{rbac.PermUsersRead, rbac.PermUsersUpdate}); err != nil {
		t.Fatalf("GrantPermissions: %v", err)
	}
	if got := len(roles.rolePermissions["role-1"]); got != 2 {
		t.Fatalf("expected 2 permissions, got %d", got)
	}

	if err := service.RevokePermissions(context.Background(), "role-1", []string{rbac.PermUsersUpdate}); err != nil {
		t.Fatalf("RevokePermissions: %v", err)
	}
	if got := len(roles.rolePermissions["role-1"]); got != 1 {
		t.Fatalf("expected 1 permission after revoke, got %d", got)
	}
}

func TestUpdateRole(t *testing.T) {
	service, roles, _, _, _, _ := newIAMFixture()
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "OLD"}

	name := "NEW"
	role, err := service.UpdateRole(context.Background(), "role-1", UpdateRoleInput{Name: &name})
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if role.Name != "NEW" {
		t.Errorf("role name = %q, want NEW", role.Name)
	}
}

func TestDeleteRoleNotFound(t *testing.T) {
	service, _, _, _, _, _ := newIAMFixture()

	if err := service.DeleteRole(context.Background(), "missing"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestAssignUserRolesPublishesAndInvalidatesMenu(t *testing.T) {
	service, roles, _, users, menuCache, events := newIAMFixture()
	users.users["user-1"] = domain.User{ID: "user-1", Email: "u@example.com", IsActive: true}
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "TIMING_OFFICIAL"}
	menuCache.entries["user-1"] = []rbac.MenuItem{{Label: "stale"}}

	if err := service.AssignUserRoles(context.Background(), "admin-1", "user-1", []string{"role-1"}); err != nil {
		t.Fatalf("AssignUserRoles: %v", err)
	}

	if got := users.userRoles["user-1"]; len(got) != 1 || got[0] != "role-1" {
		t.Errorf("user roles = %v", got)
	}
	if len(events.rolesAssigned) != 1 {
		t.Fatalf("expected 1 assignment event, got %d", len(events.rolesAssigned))
	}
	event := events.rolesAssigned[0]
	if event.AssignedBy != "admin-1" || event.UserID != "user-1" {
		t.Errorf("event actor/user = %q/%q", event.AssignedBy, event.UserID)
	}
	if len(event.RolesAdded) != 1 || event.RolesAdded[0].RoleName != "TIMING_OFFICIAL" {
		t.Errorf("event roles = %v", event.RolesAdded)
	}
	if _, ok := menuCache.entries["user-1"]; ok {
		t.Error("expected cached menu to be invalidated")
	}
}

func TestAssignUserRolesUnknownUser(t *testing.T) {
	service, roles, _, _, _, _ := newIAMFixture()
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "R"}

	if err := service.AssignUserRoles(context.Background(), "admin-1", "missing", []string{"role-1"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAssignUserRolesUnknownRole(t *testing.T) {
	service, _, _, users, _, _ := newIAMFixture()
	users.users["user-1"] = domain.User{ID: "user-1", IsActive: true}

	if err := service.AssignUserRoles(context.Background(), "admin-1", "user-1", []string{"missing"}); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRevokeUserRolesSkipsEventWhenNothingRemoved(t *testing.T) {
	service, roles, _, users, _, events := newIAMFixture()
	users.users["user-1"] = domain.User{ID: "user-1", IsActive: true}
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "R"}

	if err := service.RevokeUserRoles(context.Background(), "admin-1", "user-1", []string{"role-1"}); err != nil {
		t.Fatalf("RevokeUserRoles: %v", err)
	}
	if len(events.rolesRevoked) != 0 {
		t.Errorf("expected no revocation events, got %d", len(events.rolesRevoked))
	}
}

func TestRevokeUserRolesPublishesEvent(t *testing.T) {
	service, roles, _, users, _, events := newIAMFixture()
	users.users["user-1"] = domain.User{ID: "user-1", IsActive: true}
	roles.roles["role-1"] = domain.Role{ID: "role-1", Name: "R"}
	users.userRoles["user-1"] = []string{"role-1"}

	if err := service.RevokeUserRoles(context.Background(), "admin-1", "user-1", []string{"role-1"}); err != nil {
		t.Fatalf("RevokeUserRoles: %v", err)
	}
	if len(users.userRoles["user-1"]) != 0 {
		t.Errorf("expected roles removed, got %v", users.userRoles["user-1"])
	}
	if len(events.rolesRevoked) != 1 {
		t.Fatalf("expected 1 revocation event, got %d", len(events.rolesRevoked))
	}
}
