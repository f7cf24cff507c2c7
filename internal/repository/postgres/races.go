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
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// RaceRepository implements race persistence and the race/category links.
type RaceRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRaceRepository constructs a PostgreSQL-backed race repository.
func NewRaceRepository(pool *pgxpool.Pool) *RaceRepository {
	return &RaceRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *RaceRepository) WithTx(tx pgx.Tx) *RaceRepository {
	if tx == nil {
		return r
	}
	return &RaceRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new race.
func (r *RaceRepository) Create(ctx context.Context, race domain.Race) error {
	stmt, args, err := r.builder.Insert("byke.races").
		Columns("id", "name", "date", "location_name", "status", "type", "laps", "price", "organization_id", "track_id", "creator_id").
		Values(race.ID, race.Name, race.Date, race.LocationName, string(race.Status), string(race.Type), race.Laps, race.Price, race.OrganizationID, race.TrackID, race.CreatorID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert race sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert race: %w", err)
	}

	return nil
}

func scanRace(row pgx.Row) (*domain.Race, error) {
	var (
		race         domain.Race
		locationName sql.NullString
		status       string
		raceType     string
		laps         sql.NullInt64
		price        sql.NullFloat64
		deletedAt    sql.NullTime
	)
	if err := row.Scan(
		&race.ID, &race.Name, &race.Date, &locationName, &status, &raceType,
		&laps, &price, &race.OrganizationID, &race.TrackID, &race.CreatorID,
		&race.CreatedAt, &race.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	if locationName.Valid {
		race.LocationName = &locationName.String
	}
	race.Status = domain.RaceStatus(status)
	race.Type = domain.RaceType(raceType)
	if laps.Valid {
		count := int(laps.Int64)
		race.Laps = &count
	}
	if price.Valid {
		race.Price = &price.Float64
	}
	if deletedAt.Valid {
		race.DeletedAt = &deletedAt.Time
	}
	return &race, nil
}

const raceColumns = "id, name, date, location_name, status, type, laps, price, organization_id, track_id, creator_id, created_at, updated_at, deleted_at"

// GetByID retrieves a race by primary key.
func (r *RaceRepository) GetByID(ctx context.Context, id string) (*domain.Race, error) {
	stmt, args, err := r.builder.Select(raceColumns).
		From("byke.races").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select race sql: %w", err)
	}

	race, err := scanRace(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan race: %w", err)
	}

	return race, nil
}

func applyRaceFilter(query squirrel.SelectBuilder, filter port.RaceFilter) squirrel.SelectBuilder {
	query = query.Where(squirrel.Eq{"deleted_at": nil})
	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.Status != nil {
		query = query.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	return query
}

// List retrieves races matching the filter ordered by date, newest first.
func (r *RaceRepository) List(ctx context.Context, filter port.RaceFilter) ([]domain.Race, error) {
	query := applyRaceFilter(r.builder.Select(raceColumns).From("byke.races"), filter).
		OrderBy("date DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list races sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query races: %w", err)
	}
	defer rows.Close()

	var races []domain.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan race: %w", err)
		}
		races = append(races, *race)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate races: %w", err)
	}

	return races, nil
}

// Count reports how many races match the filter.
func (r *RaceRepository) Count(ctx context.Context, filter port.RaceFilter) (int, error) {
	stmt, args, err := applyRaceFilter(r.builder.Select("COUNT(*)").From("byke.races"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count races sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count races: %w", err)
	}

	return count, nil
}

// Update modifies an existing race.
func (r *RaceRepository) Update(ctx context.Context, race domain.Race) error {
	stmt, args, err := r.builder.Update("byke.races").
		Set("name", race.Name).
		Set("date", race.Date).
		Set("location_name", race.LocationName).
		Set("type", string(race.Type)).
		Set("laps", race.Laps).
		Set("price", race.Price).
		Set("track_id", race.TrackID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": race.ID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update race sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update race: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatus transitions the race lifecycle state.
func (r *RaceRepository) UpdateStatus(ctx context.Context, id string, status domain.RaceStatus) error {
	stmt, args, err := r.builder.Update("byke.races").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update race status sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update race status: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the race as removed without dropping the row.
func (r *RaceRepository) SoftDelete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("byke.races").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete race sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete race: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AttachCategories links categories to the race and returns the number of rows inserted.
func (r *RaceRepository) AttachCategories(ctx context.Context, raceID string, categoryIDs []string) (int, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}

	query := r.builder.Insert("byke.race_categories").
		Columns("race_id", "category_id")

	for _, categoryID := range categoryIDs {
		query = query.Values(raceID, categoryID)
	}

	stmt, args, err := query.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build attach race categories sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("attach race categories: %w", err)
	}

	return int(res.RowsAffected()), nil
}

// DetachCategory removes the category link from the race.
func (r *RaceRepository) DetachCategory(ctx context.Context, raceID, categoryID string) error {
	stmt, args, err := r.builder.Delete("byke.race_categories").
		Where(squirrel.Eq{"race_id": raceID}).
		Where(squirrel.Eq{"category_id": categoryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build detach race category sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("detach race category: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListCategories retrieves the categories linked to a race.
func (r *RaceRepository) ListCategories(ctx context.Context, raceID string) ([]domain.Category, error) {
	stmt, args, err := r.builder.Select("c.id", "c.name", "c.min_age", "c.max_age", "c.gender", "c.created_at", "c.updated_at", "c.deleted_at").
		From("byke.categories c").
		Join("byke.race_categories rc ON rc.category_id = c.id").
		Where(squirrel.Eq{"rc.race_id": raceID}).
		Where(squirrel.Eq{"c.deleted_at": nil}).
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list race categories sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query race categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan race category: %w", err)
		}
		categories = append(categories, *category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate race categories: %w", err)
	}

	return categories, nil
}
