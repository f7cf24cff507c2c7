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

// BicycleRepository implements bicycle persistence.
type BicycleRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewBicycleRepository constructs a PostgreSQL-backed bicycle repository.
func NewBicycleRepository(pool *pgxpool.Pool) *BicycleRepository {
	return &BicycleRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *BicycleRepository) WithTx(tx pgx.Tx) *BicycleRepository {
	if tx == nil {
		return r
	}
	return &BicycleRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new bicycle.
func (r *BicycleRepository) Create(ctx context.Context, bicycle domain.Bicycle) error {
	stmt, args, err := r.builder.Insert("byke.bicycles").
		Columns("id", "cyclist_profile_id", "brand", "model", "type", "color", "serial_number", "photo_url", "is_active").
		Values(bicycle.ID, bicycle.CyclistProfileID, bicycle.Brand, bicycle.Model, string(bicycle.Type), bicycle.Color, bicycle.SerialNumber, bicycle.PhotoURL, bicycle.IsActive).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert bicycle sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert bicycle: %w", err)
	}

	return nil
}

func scanBicycle(row pgx.Row) (*domain.Bicycle, error) {
	var (
		bicycle      domain.Bicycle
		bikeType     string
		color        sql.NullString
		serialNumber sql.NullString
		photoURL     sql.NullString
	)
	if err := row.Scan(
		&bicycle.ID, &bicycle.CyclistProfileID, &bicycle.Brand, &bicycle.Model,
		&bikeType, &color, &serialNumber, &photoURL, &bicycle.IsActive,
		&bicycle.CreatedAt, &bicycle.UpdatedAt,
	); err != nil {
		return nil, err
	}
	bicycle.Type = domain.BikeType(bikeType)
	if color.Valid {
		bicycle.Color = &color.String
	}
	if serialNumber.Valid {
		bicycle.SerialNumber = &serialNumber.String
	}
	if photoURL.Valid {
		bicycle.PhotoURL = &photoURL.String
	}
	return &bicycle, nil
}

const bicycleColumns = "id, cyclist_profile_id, brand, model, type, color, serial_number, photo_url, is_active, created_at, updated_at"

// GetByID retrieves a bicycle by primary key.
func (r *BicycleRepository) GetByID(ctx context.Context, id string) (*domain.Bicycle, error) {
	stmt, args, err := r.builder.Select(bicycleColumns).
		From("byke.bicycles").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select bicycle sql: %w", err)
	}

	bicycle, err := scanBicycle(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan bicycle: %w", err)
	}

	return bicycle, nil
}

// ListByProfile retrieves the bicycles of a cyclist profile.
func (r *BicycleRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.Bicycle, error) {
	stmt, args, err := r.builder.Select(bicycleColumns).
		From("byke.bicycles").
		Where(squirrel.Eq{"cyclist_profile_id": profileID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bicycles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query bicycles: %w", err)
	}
	defer rows.Close()

	var bicycles []domain.Bicycle
	for rows.Next() {
		bicycle, err := scanBicycle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bicycle: %w", err)
		}
		bicycles = append(bicycles, *bicycle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bicycles: %w", err)
	}

	return bicycles, nil
}

// Update modifies an existing bicycle.
func (r *BicycleRepository) Update(ctx context.Context, bicycle domain.Bicycle) error {
	stmt, args, err := r.builder.Update("byke.bicycles").
		Set("brand", bicycle.Brand).
		Set("model", bicycle.Model).
		Set("type", string(bicycle.Type)).
		Set("color", bicycle.Color).
		Set("serial_number", bicycle.SerialNumber).
		Set("photo_url", bicycle.PhotoURL).
		Set("is_active", bicycle.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": bicycle.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update bicycle sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update bicycle: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Deactivate retires the bicycle while keeping its registration history.
func (r *BicycleRepository) Deactivate(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("byke.bicycles").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate bicycle sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("deactivate bicycle: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
