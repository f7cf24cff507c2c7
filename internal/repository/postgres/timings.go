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

// TimingRepository implements checkpoint pass persistence.
type TimingRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTimingRepository constructs a PostgreSQL-backed timing repository.
func NewTimingRepository(pool *pgxpool.Pool) *TimingRepository {
	return &TimingRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *TimingRepository) WithTx(tx pgx.Tx) *TimingRepository {
	if tx == nil {
		return r
	}
	return &TimingRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new timing record.
func (r *TimingRepository) Create(ctx context.Context, timing domain.RaceTiming) error {
	stmt, args, err := r.builder.Insert("byke.race_timings").
		Columns("id", "race_id", "participant_id", "checkpoint_id", "recorded_at").
		Values(timing.ID, timing.RaceID, timing.ParticipantID, timing.CheckpointID, timing.RecordedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert timing sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert timing: %w", err)
	}

	return nil
}

func scanTiming(row pgx.Row) (*domain.RaceTiming, error) {
	var timing domain.RaceTiming
	if err := row.Scan(
		&timing.ID, &timing.RaceID, &timing.ParticipantID, &timing.CheckpointID,
		&timing.RecordedAt, &timing.CreatedAt, &timing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &timing, nil
}

const timingColumns = "id, race_id, participant_id, checkpoint_id, recorded_at, created_at, updated_at"

// GetByID retrieves a timing record by primary key.
func (r *TimingRepository) GetByID(ctx context.Context, id string) (*domain.RaceTiming, error) {
	stmt, args, err := r.builder.Select(timingColumns).
		From("byke.race_timings").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select timing sql: %w", err)
	}

	timing, err := scanTiming(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan timing: %w", err)
	}

	return timing, nil
}

func (r *TimingRepository) listBy(ctx context.Context, cond squirrel.Sqlizer) ([]domain.RaceTiming, error) {
	stmt, args, err := r.builder.Select(timingColumns).
		From("byke.race_timings").
		Where(cond).
		OrderBy("recorded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list timings sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query timings: %w", err)
	}
	defer rows.Close()

	var timings []domain.RaceTiming
	for rows.Next() {
		timing, err := scanTiming(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timing: %w", err)
		}
		timings = append(timings, *timing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timings: %w", err)
	}

	return timings, nil
}

// ListByRace retrieves every timing record of a race in chronological order.
func (r *TimingRepository) ListByRace(ctx context.Context, raceID string) ([]domain.RaceTiming, error) {
	return r.listBy(ctx, squirrel.Eq{"race_id": raceID})
}

// ListByParticipant retrieves the checkpoint passes of a participant.
func (r *TimingRepository) ListByParticipant(ctx context.Context, participantID string) ([]domain.RaceTiming, error) {
	return r.listBy(ctx, squirrel.Eq{"participant_id": participantID})
}

// Delete removes a timing record.
func (r *TimingRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("byke.race_timings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete timing sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete timing: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
