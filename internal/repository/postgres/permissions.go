package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// PermissionRepository implements permission persistence operations.
type PermissionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a PostgreSQL-backed permission repository.
func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *PermissionRepository) WithTx(tx pgx.Tx) *PermissionRepository {
	if tx == nil {
		return r
	}
	return &PermissionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new permission.
func (r *PermissionRepository) Create(ctx context.Context, permission domain.Permission) error {
	stmt, args, err := r.builder.Insert("byke.permissions").
		Columns("id", "action", "description").
		Values(permission.ID, permission.Action, permission.Description).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

// Ensure inserts the permission when missing and returns the stored row either way.
func (r *PermissionRepository) Ensure(ctx context.Context, permission domain.Permission) (*domain.Permission, error) {
	stmt, args, err := r.builder.Insert("byke.permissions").
		Columns("id", "action", "description").
		Values(permission.ID, permission.Action, permission.Description).
		Suffix("ON CONFLICT (action) DO UPDATE SET description = EXCLUDED.description").
		Suffix("RETURNING id, action, description, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ensure permission sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		stored      domain.Permission
		description sql.NullString
	)
	if err := row.Scan(&stored.ID, &stored.Action, &description, &stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan ensured permission: %w", err)
	}
	if description.Valid {
		stored.Description = &description.String
	}

	return &stored, nil
}

func (r *PermissionRepository) getBy(ctx context.Context, cond squirrel.Sqlizer) (*domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "action", "description", "created_at").
		From("byke.permissions").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		permission  domain.Permission
		description sql.NullString
	)
	if err := row.Scan(&permission.ID, &permission.Action, &description, &permission.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission: %w", err)
	}
	if description.Valid {
		permission.Description = &description.String
	}

	return &permission, nil
}

// GetByID retrieves a permission by its ID.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByAction retrieves a permission by its unique action string.
func (r *PermissionRepository) GetByAction(ctx context.Context, action string) (*domain.Permission, error) {
	return r.getBy(ctx, squirrel.Eq{"action": action})
}

func (r *PermissionRepository) list(ctx context.Context, stmt string, args []any) ([]domain.Permission, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		var (
			permission  domain.Permission
			description sql.NullString
		)
		if err := rows.Scan(&permission.ID, &permission.Action, &description, &permission.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		if description.Valid {
			permission.Description = &description.String
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

// List retrieves every permission sorted by action.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "action", "description", "created_at").
		From("byke.permissions").
		OrderBy("action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}
	return r.list(ctx, stmt, args)
}

// Delete removes a permission by ID.
func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("byke.permissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete permission sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByRole retrieves the permissions attached to a role.
func (r *PermissionRepository) ListByRole(ctx context.Context, roleID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("p.id", "p.action", "p.description", "p.created_at").
		From("byke.permissions p").
		Join("byke.role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions by role sql: %w", err)
	}
	return r.list(ctx, stmt, args)
}

// ListByUser retrieves the distinct permissions a user holds through role assignments.
func (r *PermissionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("DISTINCT p.id", "p.action", "p.description", "p.created_at").
		From("byke.permissions p").
		Join("byke.role_permissions rp ON rp.permission_id = p.id").
		Join("byke.user_roles ur ON ur.role_id = rp.role_id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("p.action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions by user sql: %w", err)
	}
	return r.list(ctx, stmt, args)
}
