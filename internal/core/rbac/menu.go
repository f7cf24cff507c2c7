package rbac

import (
	"strings"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// MenuItem is a navigation entry as served to the frontend.
type MenuItem struct {
	Label    string     `json:"label"`
	Route    string     `json:"route"`
	Icon     string     `json:"icon"`
	Children []MenuItem `json:"children,omitempty"`
}

// menuEntry is the internal master-menu shape, which additionally carries
// the permission gating each entry.
type menuEntry struct {
	Label      string
	Route      string
	Icon       string
	Permission string
	Children   []menuEntry
}

// masterMenu is the complete navigation tree. Entries without a
// permission are visible to every authenticated user.
var masterMenu = []menuEntry{
	{
		Label: "Panel de Control",
		Route: "/",
		Icon:  "LayoutDashboard",
	},
	{
		Label:      "Carreras",
		Route:      "/races",
		Icon:       "Flag",
		Permission: PermRacesRead,
		Children: []menuEntry{
			{Label: "Lista de Carreras", Route: "/races/list", Icon: "List", Permission: PermRacesRead},
			{Label: "Crear Carrera", Route: "/races/create", Icon: "PlusCircle", Permission: PermRacesCreate},
		},
	},
	{
		Label: "Logística",
		Route: "/logistics",
		Icon:  "Map",
		Children: []menuEntry{
			{Label: "Rutas / Pistas", Route: "/tracks", Icon: "Route", Permission: PermTracksRead},
			{Label: "Puntos de Control", Route: "/checkpoints", Icon: "MapPin", Permission: PermCheckpointsRead},
			{Label: "Categorías", Route: "/categories", Icon: "Tags", Permission: PermCategoriesRead},
		},
	},
	{
		Label: "Inscripciones",
		Route: "/registration",
		Icon:  "ClipboardList",
		Children: []menuEntry{
			{Label: "Participantes", Route: "/participants", Icon: "Users", Permission: PermParticipantsRead},
			{Label: "Bicicletas", Route: "/bicycles", Icon: "Bike", Permission: PermBicyclesRead},
			{Label: "Pagos", Route: "/payments", Icon: "CreditCard", Permission: PermPaymentsRead},
		},
	},
	{
		Label: "Administración",
		Route: "/admin",
		Icon:  "ShieldCheck",
		Children: []menuEntry{
			{Label: "Usuarios Sistema", Route: "/users", Icon: "UserCog", Permission: PermUsersRead},
			{Label: "Organizaciones", Route: "/organizations", Icon: "Building2", Permission: PermOrganizationsRead},
			{Label: "Miembros de Org.", Route: "/org-members", Icon: "BadgeId", Permission: PermOrgMembersRead},
		},
	},
	{
		Label:      "Configuración",
		Route:      "/settings",
		Icon:       "Settings",
		Permission: PermSystemManage,
		Children: []menuEntry{
			{Label: "Auditoría", Route: "/audit", Icon: "FileText", Permission: PermSystemManage},
		},
	},
}

// rolePrefixes maps a user's system role to the frontend route prefix
// prepended to every relative menu route.
var rolePrefixes = map[domain.SystemRole]string{
	domain.SystemRoleAdmin:     "/admin",
	domain.SystemRoleOrganizer: "/organizer",
	domain.SystemRoleCyclist:   "/portal",
}

// defaultPrefix is used for roles without an explicit mapping.
const defaultPrefix = "/app"

// RoutePrefix returns the frontend base path for a system role.
func RoutePrefix(role domain.SystemRole) string {
	if prefix, ok := rolePrefixes[role]; ok {
		return prefix
	}
	return defaultPrefix
}

// BuildMenu filters the master menu down to the entries the permission
// set grants and rewrites relative routes under the role's base path.
// Absolute routes (http/https) are passed through untouched.
func BuildMenu(granted PermissionSet, role domain.SystemRole) []MenuItem {
	return filterMenu(masterMenu, granted, RoutePrefix(role))
}

func filterMenu(entries []menuEntry, granted PermissionSet, basePath string) []MenuItem {
	var out []MenuItem
	for _, entry := range entries {
		if entry.Permission != "" && !granted.Has(entry.Permission) {
			continue
		}
		var children []MenuItem
		if len(entry.Children) > 0 {
			children = filterMenu(entry.Children, granted, basePath)
		}
		route := entry.Route
		if !strings.HasPrefix(route, "http") {
			route = basePath + route
		}
		out = append(out, MenuItem{
			Label:    entry.Label,
			Route:    route,
			Icon:     entry.Icon,
			Children: children,
		})
	}
	return out
}
