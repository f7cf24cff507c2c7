package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// OrganizationRepository implements organization persistence.
type OrganizationRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOrganizationRepository constructs a PostgreSQL-backed organization repository.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *OrganizationRepository) WithTx(tx pgx.Tx) *OrganizationRepository {
	if tx == nil {
		return r
	}
	return &OrganizationRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) error {
	stmt, args, err := r.builder.Insert("byke.organizations").
		Columns("id", "name", "slug", "description", "logo_url").
		Values(org.ID, org.Name, org.Slug, org.Description, org.LogoURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert organization sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert organization: %w", err)
	}

	return nil
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var (
		org         domain.Organization
		description sql.NullString
		logoURL     sql.NullString
		deletedAt   sql.NullTime
	)
	if err := row.Scan(&org.ID, &org.Name, &org.Slug, &description, &logoURL, &org.CreatedAt, &org.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		org.Description = &description.String
	}
	if logoURL.Valid {
		org.LogoURL = &logoURL.String
	}
	if deletedAt.Valid {
		org.DeletedAt = &deletedAt.Time
	}
	return &org, nil
}

func (r *OrganizationRepository) getBy(ctx context.Context, cond squirrel.Sqlizer) (*domain.Organization, error) {
	stmt, args, err := r.builder.Select("id", "name", "slug", "description", "logo_url", "created_at", "updated_at", "deleted_at").
		From("byke.organizations").
		Where(cond).
		Where(squirrel.Eq{"deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select organization sql: %w", err)
	}

	org, err := scanOrganization(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}

	return org, nil
}

// GetByID retrieves an organization by primary key.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves an organization by its unique slug.
func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.getBy(ctx, squirrel.Eq{"slug": slug})
}

func applyOrganizationFilter(query squirrel.SelectBuilder, filter port.OrganizationFilter) squirrel.SelectBuilder {
	query = query.Where(squirrel.Eq{"deleted_at": nil})
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(squirrel.Like{"lower(name)": pattern})
	}
	return query
}

// List retrieves organizations matching the filter ordered by name.
func (r *OrganizationRepository) List(ctx context.Context, filter port.OrganizationFilter) ([]domain.Organization, error) {
	query := applyOrganizationFilter(
		r.builder.Select("id", "name", "slug", "description", "logo_url", "created_at", "updated_at", "deleted_at").
			From("byke.organizations"),
		filter,
	).OrderBy("name ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list organizations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, *org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}

	return orgs, nil
}

// Count reports how many organizations match the filter.
func (r *OrganizationRepository) Count(ctx context.Context, filter port.OrganizationFilter) (int, error) {
	stmt, args, err := applyOrganizationFilter(r.builder.Select("COUNT(*)").From("byke.organizations"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count organizations sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}

	return count, nil
}

// Update modifies an existing organization.
func (r *OrganizationRepository) Update(ctx context.Context, org domain.Organization) error {
	stmt, args, err := r.builder.Update("byke.organizations").
		Set("name", org.Name).
		Set("slug", org.Slug).
		Set("description", org.Description).
		Set("logo_url", org.LogoURL).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": org.ID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("update organization: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the organization as removed without dropping the row.
func (r *OrganizationRepository) SoftDelete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("byke.organizations").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete organization sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete organization: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// OrganizationMemberRepository implements membership persistence.
type OrganizationMemberRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOrganizationMemberRepository constructs a PostgreSQL-backed membership repository.
func NewOrganizationMemberRepository(pool *pgxpool.Pool) *OrganizationMemberRepository {
	return &OrganizationMemberRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *OrganizationMemberRepository) WithTx(tx pgx.Tx) *OrganizationMemberRepository {
	if tx == nil {
		return r
	}
	return &OrganizationMemberRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Add inserts the membership, ignoring an already-existing link for the
// same user and organization.
func (r *OrganizationMemberRepository) Add(ctx context.Context, member domain.OrganizationMember) error {
	stmt, args, err := r.builder.Insert("byke.organization_members").
		Columns("id", "user_id", "organization_id", "position", "role", "is_active").
		Values(member.ID, member.UserID, member.OrganizationID, member.Position, string(member.Role), member.IsActive).
		Suffix("ON CONFLICT (user_id, organization_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add organization member sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("add organization member: %w", err)
	}

	return nil
}

func scanMember(row pgx.Row) (*domain.OrganizationMember, error) {
	var (
		member   domain.OrganizationMember
		position sql.NullString
		role     string
	)
	if err := row.Scan(&member.ID, &member.UserID, &member.OrganizationID, &position, &role, &member.IsActive, &member.JoinedAt); err != nil {
		return nil, err
	}
	if position.Valid {
		member.Position = &position.String
	}
	member.Role = domain.OrgRole(role)
	return &member, nil
}

// GetByID retrieves a membership by primary key.
func (r *OrganizationMemberRepository) GetByID(ctx context.Context, id string) (*domain.OrganizationMember, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "organization_id", "position", "role", "is_active", "joined_at").
		From("byke.organization_members").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select organization member sql: %w", err)
	}

	member, err := scanMember(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan organization member: %w", err)
	}

	return member, nil
}

func (r *OrganizationMemberRepository) listBy(ctx context.Context, cond squirrel.Sqlizer) ([]domain.OrganizationMember, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "organization_id", "position", "role", "is_active", "joined_at").
		From("byke.organization_members").
		Where(cond).
		OrderBy("joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list organization members sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query organization members: %w", err)
	}
	defer rows.Close()

	var members []domain.OrganizationMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization member: %w", err)
		}
		members = append(members, *member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organization members: %w", err)
	}

	return members, nil
}

// ListByOrganization retrieves the members of an organization.
func (r *OrganizationMemberRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.OrganizationMember, error) {
	return r.listBy(ctx, squirrel.Eq{"organization_id": organizationID})
}

// ListByUser retrieves the memberships a user holds.
func (r *OrganizationMemberRepository) ListByUser(ctx context.Context, userID string) ([]domain.OrganizationMember, error) {
	return r.listBy(ctx, squirrel.Eq{"user_id": userID})
}

// UpdateRole changes the membership role.
func (r *OrganizationMemberRepository) UpdateRole(ctx context.Context, id string, role domain.OrgRole) error {
	stmt, args, err := r.builder.Update("byke.organization_members").
		Set("role", string(role)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update member role sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Remove deletes the membership.
func (r *OrganizationMemberRepository) Remove(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("byke.organization_members").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove organization member sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("remove organization member: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
