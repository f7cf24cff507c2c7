package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

var userColumns = []string{
	"id", "email", "password_hash", "full_name", "phone", "avatar_url",
	"is_active", "system_role", "api_token", "created_at", "updated_at", "deleted_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("byke.users").
		Columns("id", "email", "password_hash", "full_name", "phone", "avatar_url", "is_active", "system_role", "api_token").
		Values(user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone, user.AvatarURL, user.IsActive, string(user.SystemRole), user.APIToken).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		phone      sql.NullString
		avatarURL  sql.NullString
		systemRole string
		apiToken   sql.NullString
		deletedAt  sql.NullTime
	)

	if err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName,
		&phone, &avatarURL, &user.IsActive, &systemRole, &apiToken,
		&user.CreatedAt, &user.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if avatarURL.Valid {
		user.AvatarURL = &avatarURL.String
	}
	user.SystemRole = domain.SystemRole(systemRole)
	if apiToken.Valid {
		user.APIToken = &apiToken.String
	}
	if deletedAt.Valid {
		user.DeletedAt = &deletedAt.Time
	}

	return &user, nil
}

func (r *UserRepository) getBy(ctx context.Context, cond squirrel.Sqlizer) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("byke.users").
		Where(cond).
		Where(squirrel.Eq{"deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	user, err := scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": strings.ToLower(email)})
}

// GetByAPIToken retrieves the user holding the given opaque token.
func (r *UserRepository) GetByAPIToken(ctx context.Context, token string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"api_token": token})
}

// GetWithAccess loads the user together with role assignments and the
// permissions behind them, assembled from a single flat join.
func (r *UserRepository) GetWithAccess(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stmt, args, err := r.builder.Select(
		"ur.role_id", "ur.assigned_at",
		"r.name", "r.description",
		"p.id", "p.action", "p.description",
	).
		From("byke.user_roles ur").
		Join("byke.roles r ON r.id = ur.role_id").
		LeftJoin("byke.role_permissions rp ON rp.role_id = r.id").
		LeftJoin("byke.permissions p ON p.id = rp.permission_id").
		Where(squirrel.Eq{"ur.user_id": id}).
		OrderBy("ur.assigned_at ASC", "p.action ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user access sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query user access: %w", err)
	}
	defer rows.Close()

	assignments := make(map[string]*domain.UserRole)
	var order []string

	for rows.Next() {
		var (
			roleID     string
			assignedAt time.Time
			roleName   string
			roleDesc   sql.NullString
			permID     sql.NullString
			permAction sql.NullString
			permDesc   sql.NullString
		)
		if err := rows.Scan(&roleID, &assignedAt, &roleName, &roleDesc, &permID, &permAction, &permDesc); err != nil {
			return nil, fmt.Errorf("scan user access row: %w", err)
		}

		assignment, ok := assignments[roleID]
		if !ok {
			role := &domain.Role{ID: roleID, Name: roleName}
			if roleDesc.Valid {
				role.Description = &roleDesc.String
			}
			assignment = &domain.UserRole{
				UserID:     id,
				RoleID:     roleID,
				AssignedAt: assignedAt,
				Role:       role,
			}
			assignments[roleID] = assignment
			order = append(order, roleID)
		}

		if permID.Valid {
			link := domain.RolePermission{
				RoleID:       roleID,
				PermissionID: permID.String,
				Permission:   &domain.Permission{ID: permID.String, Action: permAction.String},
			}
			if permDesc.Valid {
				link.Permission.Description = &permDesc.String
			}
			assignment.Role.Permissions = append(assignment.Role.Permissions, link)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user access: %w", err)
	}

	for _, roleID := range order {
		user.Roles = append(user.Roles, *assignments[roleID])
	}

	return user, nil
}

func applyUserFilter(query squirrel.SelectBuilder, filter port.UserFilter) squirrel.SelectBuilder {
	query = query.Where(squirrel.Eq{"deleted_at": nil})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"lower(email)": pattern},
			squirrel.Like{"lower(full_name)": pattern},
		})
	}
	if filter.SystemRole != nil {
		query = query.Where(squirrel.Eq{"system_role": string(*filter.SystemRole)})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	return query
}

// List retrieves users matching the filter ordered by creation time.
func (r *UserRepository) List(ctx context.Context, filter port.UserFilter) ([]domain.User, error) {
	query := applyUserFilter(r.builder.Select(userColumns...).From("byke.users"), filter).
		OrderBy("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Count reports how many users match the filter.
func (r *UserRepository) Count(ctx context.Context, filter port.UserFilter) (int, error) {
	stmt, args, err := applyUserFilter(r.builder.Select("COUNT(*)").From("byke.users"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

// Update modifies mutable profile fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("byke.users").
		Set("email", user.Email).
		Set("full_name", user.FullName).
		Set("phone", user.Phone).
		Set("avatar_url", user.AvatarURL).
		Set("is_active", user.IsActive).
		Set("system_role", string(user.SystemRole)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": user.ID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("byke.users").
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetAPIToken stores or clears the opaque API token for the user.
func (r *UserRepository) SetAPIToken(ctx context.Context, id string, token *string) error {
	stmt, args, err := r.builder.Update("byke.users").
		Set("api_token", token).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set api token sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("set api token: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the user as removed without dropping the row.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("byke.users").
		Set("deleted_at", squirrel.Expr("now()")).
		Set("is_active", false).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete user sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AssignRoles links the provided roles to the user and returns the number of rows inserted.
func (r *UserRepository) AssignRoles(ctx context.Context, userID string, roleIDs []string) (int, error) {
	if len(roleIDs) == 0 {
		return 0, nil
	}

	query := r.builder.Insert("byke.user_roles").
		Columns("user_id", "role_id")

	for _, roleID := range roleIDs {
		query = query.Values(userID, roleID)
	}

	stmt, args, err := query.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build assign user roles sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("assign user roles: %w", err)
	}

	return int(res.RowsAffected()), nil
}

// RevokeRoles removes the provided roles from the user and returns the number of rows deleted.
func (r *UserRepository) RevokeRoles(ctx context.Context, userID string, roleIDs []string) (int, error) {
	if len(roleIDs) == 0 {
		return 0, nil
	}

	stmt, args, err := r.builder.Delete("byke.user_roles").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"role_id": roleIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revoke user roles sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("revoke user roles: %w", err)
	}

	return int(res.RowsAffected()), nil
}
