package rbac

import (
	"sort"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// PermissionSet is a deduplicated set of permission action strings.
type PermissionSet map[string]struct{}

// Flatten collapses a user's eager-loaded role assignments into a
// permission set. Assignments whose role or permission links were not
// loaded are skipped rather than treated as an error.
func Flatten(user *domain.User) PermissionSet {
	set := make(PermissionSet)
	if user == nil {
		return set
	}
	for _, assignment := range user.Roles {
		if assignment.Role == nil {
			continue
		}
		for _, link := range assignment.Role.Permissions {
			if link.Permission == nil {
				continue
			}
			set[link.Permission.Action] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set grants the given permission.
func (s PermissionSet) Has(permission string) bool {
	_, ok := s[permission]
	return ok
}

// HasAll reports whether the set grants every listed permission. An empty
// list is always satisfied.
func (s PermissionSet) HasAll(permissions ...string) bool {
	for _, permission := range permissions {
		if !s.Has(permission) {
			return false
		}
	}
	return true
}

// Actions returns the granted permissions as a sorted slice.
func (s PermissionSet) Actions() []string {
	out := make([]string, 0, len(s))
	for action := range s {
		out = append(out, action)
	}
	sort.Strings(out)
	return out
}

// RoleNames returns the distinct role names assigned to the user, in
// assignment order.
func RoleNames(user *domain.User) []string {
	if user == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(user.Roles))
	out := make([]string, 0, len(user.Roles))
	for _, assignment := range user.Roles {
		if assignment.Role == nil {
			continue
		}
		if _, ok := seen[assignment.Role.Name]; ok {
			continue
		}
		seen[assignment.Role.Name] = struct{}{}
		out = append(out, assignment.Role.Name)
	}
	return out
}
