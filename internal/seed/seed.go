// Package seed provisions the baseline RBAC data: the permission catalog,
// the built-in roles, and the bootstrap admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/config"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/logger"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/security"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// Built-in role names. The seeder owns these; the API never creates them.
const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleOrganizer      = "ORGANIZER"
	RoleTimingOfficial = "TIMING_OFFICIAL"
	RoleUser           = "USER"
)

// rolePermissions maps each built-in role to the catalog actions it grants.
var rolePermissions = map[string][]string{
	RoleSuperAdmin: rbac.All(),
	RoleOrganizer: {
		rbac.PermOrganizationsRead, rbac.PermOrganizationsUpdate,
		rbac.PermOrgMembersCreate, rbac.PermOrgMembersRead, rbac.PermOrgMembersUpdate, rbac.PermOrgMembersDelete,
		rbac.PermRacesCreate, rbac.PermRacesRead, rbac.PermRacesUpdate, rbac.PermRacesDelete, rbac.PermRacesPublish,
		rbac.PermTracksCreate, rbac.PermTracksRead, rbac.PermTracksUpdate, rbac.PermTracksDelete,
		rbac.PermCheckpointsCreate, rbac.PermCheckpointsRead, rbac.PermCheckpointsUpdate, rbac.PermCheckpointsDelete,
		rbac.PermCategoriesCreate, rbac.PermCategoriesRead, rbac.PermCategoriesUpdate, rbac.PermCategoriesDelete,
		rbac.PermParticipantsCreate, rbac.PermParticipantsRead, rbac.PermParticipantsUpdate, rbac.PermParticipantsDelete,
		rbac.PermPaymentsRead, rbac.PermPaymentsUpdate,
		rbac.PermTimingRead, rbac.PermTimingVerify,
		rbac.PermUsersRead,
	},
	RoleTimingOfficial: {
		rbac.PermRacesRead,
		rbac.PermTracksRead, rbac.PermCheckpointsRead,
		rbac.PermParticipantsRead,
		rbac.PermTimingRecord, rbac.PermTimingRead, rbac.PermTimingDelete,
	},
	RoleUser: {
		rbac.PermRacesRead,
		rbac.PermOrganizationsRead,
		rbac.PermTracksRead, rbac.PermCheckpointsRead,
		rbac.PermCategoriesRead,
		rbac.PermParticipantsCreate, rbac.PermParticipantsRead,
		rbac.PermBicyclesCreate, rbac.PermBicyclesRead, rbac.PermBicyclesUpdate, rbac.PermBicyclesDelete,
		rbac.PermPaymentsCreate, rbac.PermPaymentsRead,
		rbac.PermTimingRead,
	},
}

// Seeder provisions catalog permissions, built-in roles, and the admin user.
type Seeder struct {
	users       port.UserRepository
	roles       port.RoleRepository
	permissions port.PermissionRepository
	hasher      *security.Hasher
	logger      *zap.Logger
}

// New builds a seeder over the provided repositories.
func New(users port.UserRepository, roles port.RoleRepository, permissions port.PermissionRepository, hasher *security.Hasher, log *zap.Logger) *Seeder {
	return &Seeder{
		users:       users,
		roles:       roles,
		permissions: permissions,
		hasher:      hasher,
		logger:      log,
	}
}

// Run is idempotent: rerunning never duplicates permissions, roles, or the
// admin account.
func (s *Seeder) Run(ctx context.Context, cfg config.SeedSettings) error {
	permissionIDs, err := s.ensurePermissions(ctx)
	if err != nil {
		return err
	}

	roleIDs, err := s.ensureRoles(ctx, permissionIDs)
	if err != nil {
		return err
	}

	if err := s.ensureAdmin(ctx, cfg, roleIDs[RoleSuperAdmin]); err != nil {
		return err
	}

	return nil
}

// ensurePermissions upserts the full catalog and returns action -> ID.
func (s *Seeder) ensurePermissions(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string, len(rbac.All()))

	for _, action := range rbac.All() {
		stored, err := s.permissions.Ensure(ctx, domain.Permission{
			ID:        uuid.NewString(),
			Action:    action,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("ensure permission %s: %w", action, err)
		}
		ids[action] = stored.ID
	}

	s.logger.Info("permission catalog ensured", zap.Int("count", len(ids)))
	return ids, nil
}

// ensureRoles upserts the built-in roles and their grants, returning
// name -> role ID.
func (s *Seeder) ensureRoles(ctx context.Context, permissionIDs map[string]string) (map[string]string, error) {
	ids := make(map[string]string, len(rolePermissions))

	for name, actions := range rolePermissions {
		now := time.Now().UTC()
		role, err := s.roles.Ensure(ctx, domain.Role{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("ensure role %s: %w", name, err)
		}
		ids[name] = role.ID

		grantIDs := make([]string, 0, len(actions))
		for _, action := range actions {
			id, ok := permissionIDs[action]
			if !ok {
				return nil, fmt.Errorf("role %s references unknown action %s", name, action)
			}
			grantIDs = append(grantIDs, id)
		}

		granted, err := s.roles.AssignPermissions(ctx, role.ID, grantIDs)
		if err != nil {
			return nil, fmt.Errorf("grant permissions to %s: %w", name, err)
		}

		s.logger.Info("role ensured",
			zap.String("role", name),
			zap.Int("permissions", len(grantIDs)),
			zap.Int("newly_granted", granted),
		)
	}

	return ids, nil
}

// ensureAdmin creates the bootstrap admin account unless it already exists.
func (s *Seeder) ensureAdmin(ctx context.Context, cfg config.SeedSettings, superAdminRoleID string) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		s.logger.Warn("admin seed skipped, email or password not configured")
		return nil
	}

	existing, err := s.users.GetByEmail(ctx, cfg.AdminEmail)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if existing != nil {
		s.logger.Info("admin account already present",
			zap.String("email", logger.MaskEmail(existing.Email)),
		)
		return nil
	}

	hash, err := s.hasher.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           uuid.NewString(),
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FullName:     cfg.AdminFullName,
		IsActive:     true,
		SystemRole:   domain.SystemRoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	if _, err := s.users.AssignRoles(ctx, admin.ID, []string{superAdminRoleID}); err != nil {
		return fmt.Errorf("assign super admin role: %w", err)
	}

	s.logger.Info("admin account created",
		zap.String("email", logger.MaskEmail(admin.Email)),
	)
	return nil
}
