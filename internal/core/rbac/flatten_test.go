package rbac

import (
	"reflect"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

func userWithPermissions(roleName string, actions ...string) *domain.User {
	role := &domain.Role{ID: "role-" + roleName, Name: roleName}
	for _, action := range actions {
		role.Permissions = append(role.Permissions, domain.RolePermission{
			RoleID:       role.ID,
			PermissionID: action,
			Permission:   &domain.Permission{ID: action, Action: action},
		})
	}
	return &domain.User{
		ID:    "user-1",
		Roles: []domain.UserRole{{UserID: "user-1", RoleID: role.ID, Role: role}},
	}
}

func TestFlatten_CollectsActionsAcrossRoles(t *testing.T) {
	organizer := &domain.Role{
		ID:   "role-org",
		Name: "ORGANIZER",
		Permissions: []domain.RolePermission{
			{Permission: &domain.Permission{ID: "p1", Action: PermRacesCreate}},
			{Permission: &domain.Permission{ID: "p2", Action: PermRacesRead}},
		},
	}
	official := &domain.Role{
		ID:   "role-timing",
		Name: "TIMING_OFFICIAL",
		Permissions: []domain.RolePermission{
			{Permission: &domain.Permission{ID: "p3", Action: PermTimingRecord}},
			{Permission: &domain.Permission{ID: "p2", Action: PermRacesRead}},
		},
	}
	user := &domain.User{
		ID: "user-1",
		Roles: []domain.UserRole{
			{UserID: "user-1", RoleID: organizer.ID, Role: organizer},
			{UserID: "user-1", RoleID: official.ID, Role: official},
		},
	}

	set := Flatten(user)

	want := []string{PermRacesCreate, PermRacesRead, PermTimingRecord}
	got := set.Actions()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected actions %v, got %v", want, got)
	}
}

func TestFlatten_DeduplicatesOverlappingRoles(t *testing.T) {
	shared := &domain.Permission{ID: "p1", Action: PermRacesRead}
	roleA := &domain.Role{ID: "a", Name: "A", Permissions: []domain.RolePermission{{Permission: shared}}}
	roleB := &domain.Role{ID: "b", Name: "B", Permissions: []domain.RolePermission{{Permission: shared}}}
	user := &domain.User{
		ID: "user-1",
		Roles: []domain.UserRole{
			{Role: roleA},
			{Role: roleB},
		},
	}

	set := Flatten(user)
	if len(set) != 1 {
		t.Fatalf("expected 1 distinct permission, got %d", len(set))
	}
}

func TestFlatten_ToleratesMissingLinks(t *testing.T) {
	user := &domain.User{
		ID: "user-1",
		Roles: []domain.UserRole{
			{Role: nil},
			{Role: &domain.Role{ID: "r", Name: "R", Permissions: []domain.RolePermission{{Permission: nil}}}},
		},
	}

	set := Flatten(user)
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set.Actions())
	}
}

func TestFlatten_NilUser(t *testing.T) {
	set := Flatten(nil)
	if len(set) != 0 {
		t.Fatalf("expected empty set for nil user, got %v", set.Actions())
	}
}

func TestPermissionSet_HasAll(t *testing.T) {
	set := Flatten(userWithPermissions("ORGANIZER", PermRacesCreate, PermRacesRead))

	if !set.HasAll() {
		t.Error("empty requirement list should always pass")
	}
	if !set.HasAll(PermRacesCreate, PermRacesRead) {
		t.Error("expected HasAll to pass when every permission is granted")
	}
	if set.HasAll(PermRacesCreate, PermSystemManage) {
		t.Error("expected HasAll to fail when one permission is missing")
	}
}

func TestRoleNames_Deduplicates(t *testing.T) {
	role := &domain.Role{ID: "r1", Name: "ORGANIZER"}
	user := &domain.User{
		ID: "user-1",
		Roles: []domain.UserRole{
			{Role: role},
			{Role: role},
			{Role: nil},
		},
	}

	names := RoleNames(user)
	if !reflect.DeepEqual(names, []string{"ORGANIZER"}) {
		t.Fatalf("expected [ORGANIZER], got %v", names)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0] = "tampered"

	second := All()
	if second[0] == "tampered" {
		t.Fatal("All must return a defensive copy of the catalog")
	}
	if len(second) != 47 {
		t.Fatalf("expected 47 catalog entries, got %d", len(second))
	}
}
