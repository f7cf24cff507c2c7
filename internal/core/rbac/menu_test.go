package rbac

import (
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

func findItem(items []MenuItem, label string) *MenuItem {
	for i := range items {
		if items[i].Label == label {
			return &items[i]
		}
	}
	return nil
}

func TestBuildMenu_UngatedEntriesAlwaysVisible(t *testing.T) {
	menu := BuildMenu(PermissionSet{}, domain.SystemRoleCyclist)

	dashboard := findItem(menu, "Panel de Control")
	if dashboard == nil {
		t.Fatal("expected ungated dashboard entry to survive filtering")
	}
	if dashboard.Route != "/portal/" {
		t.Errorf("expected route /portal/, got %s", dashboard.Route)
	}
	if findItem(menu, "Carreras") != nil {
		t.Error("gated entry must be hidden without its permission")
	}
}

func TestBuildMenu_FiltersChildrenIndependently(t *testing.T) {
	granted := PermissionSet{
		PermRacesRead: {},
	}

	menu := BuildMenu(granted, domain.SystemRoleOrganizer)

	races := findItem(menu, "Carreras")
	if races == nil {
		t.Fatal("expected races entry for race:action:read holder")
	}
	if len(races.Children) != 1 {
		t.Fatalf("expected 1 surviving child, got %d", len(races.Children))
	}
	if races.Children[0].Label != "Lista de Carreras" {
		t.Errorf("unexpected surviving child %q", races.Children[0].Label)
	}
	if races.Children[0].Route != "/organizer/races/list" {
		t.Errorf("expected prefixed child route, got %s", races.Children[0].Route)
	}
}

func TestBuildMenu_ParentWithoutSurvivingChildrenHasNilChildren(t *testing.T) {
	granted := PermissionSet{
		PermTracksRead: {},
	}

	menu := BuildMenu(granted, domain.SystemRoleAdmin)

	logistics := findItem(menu, "Logística")
	if logistics == nil {
		t.Fatal("expected ungated logistics entry")
	}
	if len(logistics.Children) != 1 {
		t.Fatalf("expected only tracks child, got %d children", len(logistics.Children))
	}

	registration := findItem(menu, "Inscripciones")
	if registration == nil {
		t.Fatal("expected ungated registration entry")
	}
	if registration.Children != nil {
		t.Errorf("expected nil children when none survive, got %v", registration.Children)
	}
}

func TestBuildMenu_SystemManageUnlocksSettings(t *testing.T) {
	granted := PermissionSet{PermSystemManage: {}}

	menu := BuildMenu(granted, domain.SystemRoleAdmin)

	settings := findItem(menu, "Configuración")
	if settings == nil {
		t.Fatal("expected settings entry for system:action:manage holder")
	}
	if settings.Route != "/admin/settings" {
		t.Errorf("expected /admin/settings, got %s", settings.Route)
	}
	if len(settings.Children) != 1 || settings.Children[0].Route != "/admin/audit" {
		t.Errorf("expected audit child under settings, got %v", settings.Children)
	}
}

func TestRoutePrefix(t *testing.T) {
	cases := []struct {
		role domain.SystemRole
		want string
	}{
		{domain.SystemRoleAdmin, "/admin"},
		{domain.SystemRoleOrganizer, "/organizer"},
		{domain.SystemRoleCyclist, "/portal"},
		{domain.SystemRole("UNKNOWN"), "/app"},
		{domain.SystemRole(""), "/app"},
	}
	for _, tc := range cases {
		if got := RoutePrefix(tc.role); got != tc.want {
			t.Errorf("RoutePrefix(%q) = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestFilterMenu_AbsoluteRoutesUntouched(t *testing.T) {
	entries := []menuEntry{
		{Label: "Docs", Route: "https://docs.example.com", Icon: "Book"},
		{Label: "Status", Route: "http://status.example.com", Icon: "Activity"},
	}

	items := filterMenu(entries, PermissionSet{}, "/admin")
	if items[0].Route != "https://docs.example.com" {
		t.Errorf("https route must pass through, got %s", items[0].Route)
	}
	if items[1].Route != "http://status.example.com" {
		t.Errorf("http route must pass through, got %s", items[1].Route)
	}
}
