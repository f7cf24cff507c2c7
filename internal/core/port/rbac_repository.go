package port

import (
	"context"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// RoleRepository handles role CRUD and the role/permission and role/user links.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	// Ensure creates the role if missing and returns the stored row either way.
	Ensure(ctx context.Context, role domain.Role) (*domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, role domain.Role) error
	Delete(ctx context.Context, id string) error
	AssignPermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error)
	RevokePermissions(ctx context.Context, roleID string, permissionIDs []string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Role, error)
}

// PermissionRepository manages permission storage.
type PermissionRepository interface {
	Create(ctx context.Context, permission domain.Permission) error
	// Ensure creates the permission if missing and returns the stored row
	// either way.
	Ensure(ctx context.Context, permission domain.Permission) (*domain.Permission, error)
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	GetByAction(ctx context.Context, action string) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	Delete(ctx context.Context, id string) error
	ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Permission, error)
}
