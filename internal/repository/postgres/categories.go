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

// CategoryRepository implements category persistence.
type CategoryRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCategoryRepository constructs a PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *CategoryRepository) WithTx(tx pgx.Tx) *CategoryRepository {
	if tx == nil {
		return r
	}
	return &CategoryRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) error {
	stmt, args, err := r.builder.Insert("byke.categories").
		Columns("id", "name", "min_age", "max_age", "gender").
		Values(category.ID, category.Name, category.MinAge, category.MaxAge, category.Gender).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert category sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category  domain.Category
		minAge    sql.NullInt64
		maxAge    sql.NullInt64
		gender    sql.NullString
		deletedAt sql.NullTime
	)
	if err := row.Scan(&category.ID, &category.Name, &minAge, &maxAge, &gender, &category.CreatedAt, &category.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	if minAge.Valid {
		age := int(minAge.Int64)
		category.MinAge = &age
	}
	if maxAge.Valid {
		age := int(maxAge.Int64)
		category.MaxAge = &age
	}
	if gender.Valid {
		category.Gender = &gender.String
	}
	if deletedAt.Valid {
		category.DeletedAt = &deletedAt.Time
	}
	return &category, nil
}

const categoryColumns = "id, name, min_age, max_age, gender, created_at, updated_at, deleted_at"

// GetByID retrieves a category by primary key.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	stmt, args, err := r.builder.Select(categoryColumns).
		From("byke.categories").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select category sql: %w", err)
	}

	category, err := scanCategory(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return category, nil
}

// List retrieves every live category sorted by name.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	stmt, args, err := r.builder.Select(categoryColumns).
		From("byke.categories").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	stmt, args, err := r.builder.Update("byke.categories").
		Set("name", category.Name).
		Set("min_age", category.MinAge).
		Set("max_age", category.MaxAge).
		Set("gender", category.Gender).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": category.ID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update category sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the category as removed without dropping the row.
func (r *CategoryRepository) SoftDelete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("byke.categories").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete category sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
