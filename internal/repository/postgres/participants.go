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

// ParticipantRepository implements race registration persistence.
type ParticipantRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewParticipantRepository constructs a PostgreSQL-backed participant repository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *ParticipantRepository) WithTx(tx pgx.Tx) *ParticipantRepository {
	if tx == nil {
		return r
	}
	return &ParticipantRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new participant.
func (r *ParticipantRepository) Create(ctx context.Context, participant domain.RaceParticipant) error {
	stmt, args, err := r.builder.Insert("byke.race_participants").
		Columns("id", "race_id", "profile_id", "bicycle_id", "category_assigned_id", "bib_number", "has_paid", "status").
		Values(participant.ID, participant.RaceID, participant.ProfileID, participant.BicycleID, participant.CategoryAssignedID, participant.BibNumber, participant.HasPaid, participant.Status).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert participant sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

func scanParticipant(row pgx.Row) (*domain.RaceParticipant, error) {
	var (
		participant domain.RaceParticipant
		bicycleID   sql.NullString
		categoryID  sql.NullString
		status      sql.NullString
		finalTime   sql.NullInt64
		rank        sql.NullInt64
	)
	if err := row.Scan(
		&participant.ID, &participant.RaceID, &participant.ProfileID,
		&bicycleID, &categoryID, &participant.BibNumber, &participant.HasPaid,
		&status, &finalTime, &rank, &participant.CreatedAt, &participant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if bicycleID.Valid {
		participant.BicycleID = &bicycleID.String
	}
	if categoryID.Valid {
		participant.CategoryAssignedID = &categoryID.String
	}
	if status.Valid {
		participant.Status = &status.String
	}
	if finalTime.Valid {
		participant.FinalTimeMs = &finalTime.Int64
	}
	if rank.Valid {
		position := int(rank.Int64)
		participant.Rank = &position
	}
	return &participant, nil
}

const participantColumns = "id, race_id, profile_id, bicycle_id, category_assigned_id, bib_number, has_paid, status, final_time_ms, rank, created_at, updated_at"

func (r *ParticipantRepository) getBy(ctx context.Context, cond squirrel.Sqlizer) (*domain.RaceParticipant, error) {
	stmt, args, err := r.builder.Select(participantColumns).
		From("byke.race_participants").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select participant sql: %w", err)
	}

	participant, err := scanParticipant(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan participant: %w", err)
	}

	return participant, nil
}

// GetByID retrieves a participant by primary key.
func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.RaceParticipant, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByRaceAndProfile retrieves a registration by its natural key.
func (r *ParticipantRepository) GetByRaceAndProfile(ctx context.Context, raceID, profileID string) (*domain.RaceParticipant, error) {
	return r.getBy(ctx, squirrel.Eq{"race_id": raceID, "profile_id": profileID})
}

func (r *ParticipantRepository) listBy(ctx context.Context, cond squirrel.Sqlizer, order string) ([]domain.RaceParticipant, error) {
	stmt, args, err := r.builder.Select(participantColumns).
		From("byke.race_participants").
		Where(cond).
		OrderBy(order).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list participants sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.RaceParticipant
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, *participant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}

	return participants, nil
}

// ListByRace retrieves a race's registrations ordered by bib.
func (r *ParticipantRepository) ListByRace(ctx context.Context, raceID string) ([]domain.RaceParticipant, error) {
	return r.listBy(ctx, squirrel.Eq{"race_id": raceID}, "bib_number ASC")
}

// ListByProfile retrieves a cyclist's registrations, newest first.
func (r *ParticipantRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.RaceParticipant, error) {
	return r.listBy(ctx, squirrel.Eq{"profile_id": profileID}, "created_at DESC")
}

// CountByRace reports how many registrations a race has.
func (r *ParticipantRepository) CountByRace(ctx context.Context, raceID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("byke.race_participants").
		Where(squirrel.Eq{"race_id": raceID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count participants sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}

	return count, nil
}

// NextBibNumber returns the next free bib for the race, starting at 1.
func (r *ParticipantRepository) NextBibNumber(ctx context.Context, raceID string) (int, error) {
	stmt, args, err := r.builder.Select("COALESCE(MAX(bib_number), 0) + 1").
		From("byke.race_participants").
		Where(squirrel.Eq{"race_id": raceID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build next bib sql: %w", err)
	}

	var bib int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&bib); err != nil {
		return 0, fmt.Errorf("next bib: %w", err)
	}

	return bib, nil
}

// Update modifies an existing participant.
func (r *ParticipantRepository) Update(ctx context.Context, participant domain.RaceParticipant) error {
	stmt, args, err := r.builder.Update("byke.race_participants").
		Set("bicycle_id", participant.BicycleID).
		Set("category_assigned_id", participant.CategoryAssignedID).
		Set("has_paid", participant.HasPaid).
		Set("status", participant.Status).
		Set("final_time_ms", participant.FinalTimeMs).
		Set("rank", participant.Rank).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": participant.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update participant sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a registration.
func (r *ParticipantRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("byke.race_participants").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete participant sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
