package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// CheckpointRepository implements checkpoint persistence.
type CheckpointRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCheckpointRepository constructs a PostgreSQL-backed checkpoint repository.
func NewCheckpointRepository(pool *pgxpool.Pool) *CheckpointRepository {
	return &CheckpointRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *CheckpointRepository) WithTx(tx pgx.Tx) *CheckpointRepository {
	if tx == nil {
		return r
	}
	return &CheckpointRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new checkpoint. "order" is quoted because it is a reserved word.
func (r *CheckpointRepository) Create(ctx context.Context, checkpoint domain.Checkpoint) error {
	stmt, args, err := r.builder.Insert("byke.checkpoints").
		Columns("id", "track_id", "name", "latitude", "longitude", `"order"`, "is_start", "is_finish").
		Values(checkpoint.ID, checkpoint.TrackID, checkpoint.Name, checkpoint.Latitude, checkpoint.Longitude, checkpoint.Order, checkpoint.IsStart, checkpoint.IsFinish).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert checkpoint sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert checkpoint: %w", err)
	}

	return nil
}

func scanCheckpoint(row pgx.Row) (*domain.Checkpoint, error) {
	var checkpoint domain.Checkpoint
	if err := row.Scan(
		&checkpoint.ID, &checkpoint.TrackID, &checkpoint.Name,
		&checkpoint.Latitude, &checkpoint.Longitude, &checkpoint.Order,
		&checkpoint.IsStart, &checkpoint.IsFinish,
		&checkpoint.CreatedAt, &checkpoint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &checkpoint, nil
}

const checkpointColumns = `id, track_id, name, latitude, longitude, "order", is_start, is_finish, created_at, updated_at`

// GetByID retrieves a checkpoint by primary key.
func (r *CheckpointRepository) GetByID(ctx context.Context, id string) (*domain.Checkpoint, error) {
	stmt, args, err := r.builder.Select(checkpointColumns).
		From("byke.checkpoints").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select checkpoint sql: %w", err)
	}

	checkpoint, err := scanCheckpoint(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan checkpoint: %w", err)
	}

	return checkpoint, nil
}

// ListByTrack retrieves the checkpoints of a track in course order.
func (r *CheckpointRepository) ListByTrack(ctx context.Context, trackID string) ([]domain.Checkpoint, error) {
	stmt, args, err := r.builder.Select(checkpointColumns).
		From("byke.checkpoints").
		Where(squirrel.Eq{"track_id": trackID}).
		OrderBy(`"order" ASC`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list checkpoints sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query checkpoints: %w", err)
	}
	defer rows.Close()

	var checkpoints []domain.Checkpoint
	for rows.Next() {
		checkpoint, err := scanCheckpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, *checkpoint)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}

	return checkpoints, nil
}

// Update modifies an existing checkpoint.
func (r *CheckpointRepository) Update(ctx context.Context, checkpoint domain.Checkpoint) error {
	stmt, args, err := r.builder.Update("byke.checkpoints").
		Set("name", checkpoint.Name).
		Set("latitude", checkpoint.Latitude).
		Set("longitude", checkpoint.Longitude).
		Set(`"order"`, checkpoint.Order).
		Set("is_start", checkpoint.IsStart).
		Set("is_finish", checkpoint.IsFinish).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": checkpoint.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update checkpoint sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update checkpoint: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a checkpoint.
func (r *CheckpointRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("byke.checkpoints").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete checkpoint sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete checkpoint: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
