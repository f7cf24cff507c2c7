package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

var (
	// ErrRoleExists indicates a role with the provided name already exists.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleNotFound is returned when the referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnknownPermission indicates an action outside the permission catalog.
	ErrUnknownPermission = errors.New("unknown permission")
)

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Name        string
	Description *string
	Permissions []string
}

// UpdateRoleInput captures the mutable fields of a role.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// IAMService manages roles, permissions, and user access assignments.
type IAMService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	users       port.UserRepository
	menuCache   port.MenuCache
	events      port.EventPublisher
}

// NewIAMService constructs an IAMService.
func NewIAMService(
	roles port.RoleRepository,
	permissions port.PermissionRepository,
	users port.UserRepository,
	menuCache port.MenuCache,
	events port.EventPublisher,
) *IAMService {
	return &IAMService{
		roles:       roles,
		permissions: permissions,
		users:       users,
		menuCache:   menuCache,
		events:      events,
	}
}

// ListRoles returns all roles.
func (s *IAMService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// GetRole returns a role with its permission links.
func (s *IAMService) GetRole(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	return role, nil
}

// CreateRole provisions a new role and grants the listed catalog permissions.
func (s *IAMService) CreateRole(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}

	if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil {
		return nil, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by name: %w", err)
	}

	now := time.Now().UTC()
	role := domain.Role{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			role.Description = &trimmed
		}
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	if len(input.Permissions) > 0 {
		if err := s.GrantPermissions(ctx, role.ID, input.Permissions); err != nil {
			return nil, err
		}
	}

	return &role, nil
}

// UpdateRole applies partial changes to a role.
func (s *IAMService) UpdateRole(ctx context.Context, roleID string, input UpdateRoleInput) (*domain.Role, error) {
	role, err := s.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("role name is required")
		}
		role.Name = name
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed == "" {
			role.Description = nil
		} else {
			role.Description = &trimmed
		}
	}

	role.UpdatedAt = time.Now().UTC()
	if err := s.roles.Update(ctx, *role); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRoleExists
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	return role, nil
}

// DeleteRole removes a role and its grants.
func (s *IAMService) DeleteRole(ctx context.Context, roleID string) error {
	if err := s.roles.Delete(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

// ListPermissions returns the persisted permission catalog.
func (s *IAMService) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	return s.permissions.List(ctx)
}

// GrantPermissions links catalog actions to a role. Actions absent from the
// catalog and unknown role ids are rejected before any write happens.
func (s *IAMService) GrantPermissions(ctx context.Context, roleID string, actions []string) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	ids, err := s.resolveActions(ctx, actions)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err := s.roles.AssignPermissions(ctx, roleID, ids); err != nil {
		return fmt.Errorf("assign permissions: %w", err)
	}
	return nil
}

// RevokePermissions unlinks catalog actions from a role.
func (s *IAMService) RevokePermissions(ctx context.Context, roleID string, actions []string) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("load role: %w", err)
	}

	ids, err := s.resolveActions(ctx, actions)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err := s.roles.RevokePermissions(ctx, roleID, ids); err != nil {
		return fmt.Errorf("revoke permissions: %w", err)
	}
	return nil
}

func (s *IAMService) resolveActions(ctx context.Context, actions []string) ([]string, error) {
	known := make(map[string]struct{}, len(rbac.All()))
	for _, action := range rbac.All() {
		known[action] = struct{}{}
	}

	ids := make([]string, 0, len(actions))
	seen := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		action = strings.TrimSpace(action)
		if action == "" {
			continue
		}
		if _, ok := known[action]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, action)
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}

		permission, err := s.permissions.GetByAction(ctx, action)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, action)
			}
			return nil, fmt.Errorf("lookup permission %q: %w", action, err)
		}
		ids = append(ids, permission.ID)
	}

	return ids, nil
}

// AssignUserRoles grants the listed roles to a user, drops their cached menu,
// and publishes an assignment event for the roles that were newly linked.
func (s *IAMService) AssignUserRoles(ctx context.Context, actorID, userID string, roleIDs []string) error {
	changes, err := s.resolveRoles(ctx, userID, roleIDs)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(changes))
	for _, change := range changes {
		ids = append(ids, change.RoleID)
	}

	if _, err := s.users.AssignRoles(ctx, userID, ids); err != nil {
		return fmt.Errorf("assign roles: %w", err)
	}

	s.invalidateMenu(ctx, userID)

	if s.events != nil {
		event := domain.RolesAssignedEvent{
			EventID:    uuid.NewString(),
			UserID:     userID,
			RolesAdded: changes,
			AssignedBy: actorID,
			AssignedAt: time.Now().UTC(),
		}
		if err := s.events.PublishRolesAssigned(ctx, event); err != nil {
			return fmt.Errorf("publish roles assigned event: %w", err)
		}
	}

	return nil
}

// RevokeUserRoles removes the listed roles from a user and drops their cached menu.
func (s *IAMService) RevokeUserRoles(ctx context.Context, actorID, userID string, roleIDs []string) error {
	changes, err := s.resolveRoles(ctx, userID, roleIDs)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(changes))
	for _, change := range changes {
		ids = append(ids, change.RoleID)
	}

	removed, err := s.users.RevokeRoles(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("revoke roles: %w", err)
	}
	if removed == 0 {
		return nil
	}

	s.invalidateMenu(ctx, userID)

	if s.events != nil {
		event := domain.RolesRevokedEvent{
			EventID:      uuid.NewString(),
			UserID:       userID,
			RolesRemoved: changes,
			RevokedBy:    actorID,
			RevokedAt:    time.Now().UTC(),
		}
		if err := s.events.PublishRolesRevoked(ctx, event); err != nil {
			return fmt.Errorf("publish roles revoked event: %w", err)
		}
	}

	return nil
}

// UserPermissions returns the flattened permission actions granted to a user.
func (s *IAMService) UserPermissions(ctx context.Context, userID string) ([]string, error) {
	permissions, err := s.permissions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user permissions: %w", err)
	}

	actions := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		actions = append(actions, permission.Action)
	}
	return actions, nil
}

// UserRoles returns the roles assigned to a user.
func (s *IAMService) UserRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	roles, err := s.roles.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return roles, nil
}

func (s *IAMService) resolveRoles(ctx context.Context, userID string, roleIDs []string) ([]domain.RoleChange, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	changes := make([]domain.RoleChange, 0, len(roleIDs))
	seen := make(map[string]struct{}, len(roleIDs))
	for _, roleID := range roleIDs {
		roleID = strings.TrimSpace(roleID)
		if roleID == "" {
			continue
		}
		if _, dup := seen[roleID]; dup {
			continue
		}
		seen[roleID] = struct{}{}

		role, err := s.roles.GetByID(ctx, roleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("role %s: %w", roleID, ErrRoleNotFound)
			}
			return nil, fmt.Errorf("lookup role %s: %w", roleID, err)
		}
		changes = append(changes, domain.RoleChange{RoleID: role.ID, RoleName: role.Name})
	}

	return changes, nil
}

func (s *IAMService) invalidateMenu(ctx context.Context, userID string) {
	if s.menuCache == nil {
		return
	}
	// Best effort: a stale cached menu expires with its TTL anyway.
	_ = s.menuCache.Invalidate(ctx, userID)
}
