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

// TrackRepository implements course persistence.
type TrackRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTrackRepository constructs a PostgreSQL-backed track repository.
func NewTrackRepository(pool *pgxpool.Pool) *TrackRepository {
	return &TrackRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *TrackRepository) WithTx(tx pgx.Tx) *TrackRepository {
	if tx == nil {
		return r
	}
	return &TrackRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new track.
func (r *TrackRepository) Create(ctx context.Context, track domain.Track) error {
	stmt, args, err := r.builder.Insert("byke.tracks").
		Columns("id", "name", "description", "distance_km", "elevation_gain", "geo_data", "organization_id").
		Values(track.ID, track.Name, track.Description, track.DistanceKm, track.ElevationGain, track.GeoData, track.OrganizationID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert track sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert track: %w", err)
	}

	return nil
}

func scanTrack(row pgx.Row) (*domain.Track, error) {
	var (
		track         domain.Track
		description   sql.NullString
		elevationGain sql.NullFloat64
		deletedAt     sql.NullTime
	)
	if err := row.Scan(
		&track.ID, &track.Name, &description, &track.DistanceKm, &elevationGain,
		&track.GeoData, &track.OrganizationID, &track.CreatedAt, &track.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		track.Description = &description.String
	}
	if elevationGain.Valid {
		track.ElevationGain = &elevationGain.Float64
	}
	if deletedAt.Valid {
		track.DeletedAt = &deletedAt.Time
	}
	return &track, nil
}

const trackColumns = "id, name, description, distance_km, elevation_gain, geo_data, organization_id, created_at, updated_at, deleted_at"

// GetByID retrieves a track by primary key.
func (r *TrackRepository) GetByID(ctx context.Context, id string) (*domain.Track, error) {
	stmt, args, err := r.builder.Select(trackColumns).
		From("byke.tracks").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select track sql: %w", err)
	}

	track, err := scanTrack(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan track: %w", err)
	}

	return track, nil
}

func (r *TrackRepository) listBy(ctx context.Context, cond squirrel.Sqlizer) ([]domain.Track, error) {
	query := r.builder.Select(trackColumns).
		From("byke.tracks").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("name ASC")
	if cond != nil {
		query = query.Where(cond)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tracks sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks = append(tracks, *track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracks: %w", err)
	}

	return tracks, nil
}

// List retrieves every live track.
func (r *TrackRepository) List(ctx context.Context) ([]domain.Track, error) {
	return r.listBy(ctx, nil)
}

// ListByOrganization retrieves the tracks owned by an organization.
func (r *TrackRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Track, error) {
	return r.listBy(ctx, squirrel.Eq{"organization_id": organizationID})
}

// Update modifies an existing track.
func (r *TrackRepository) Update(ctx context.Context, track domain.Track) error {
	stmt, args, err := r.builder.Update("byke.tracks").
		Set("name", track.Name).
		Set("description", track.Description).
		Set("distance_km", track.DistanceKm).
		Set("elevation_gain", track.ElevationGain).
		Set("geo_data", track.GeoData).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": track.ID}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update track sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update track: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks the track as removed without dropping the row.
func (r *TrackRepository) SoftDelete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("byke.tracks").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete track sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete track: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
