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

// CyclistProfileRepository implements rider profile persistence.
type CyclistProfileRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCyclistProfileRepository constructs a PostgreSQL-backed profile repository.
func NewCyclistProfileRepository(pool *pgxpool.Pool) *CyclistProfileRepository {
	return &CyclistProfileRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *CyclistProfileRepository) WithTx(tx pgx.Tx) *CyclistProfileRepository {
	if tx == nil {
		return r
	}
	return &CyclistProfileRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new cyclist profile.
func (r *CyclistProfileRepository) Create(ctx context.Context, profile domain.CyclistProfile) error {
	stmt, args, err := r.builder.Insert("byke.cyclist_profiles").
		Columns("id", "user_id", "birth_date", "blood_type", "emergency_contact", "emergency_phone").
		Values(profile.ID, profile.UserID, profile.BirthDate, profile.BloodType, profile.EmergencyContact, profile.EmergencyPhone).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

func (r *CyclistProfileRepository) getBy(ctx context.Context, cond squirrel.Sqlizer) (*domain.CyclistProfile, error) {
	stmt, args, err := r.builder.Select(
		"id", "user_id", "birth_date", "blood_type", "emergency_contact", "emergency_phone", "created_at", "updated_at",
	).
		From("byke.cyclist_profiles").
		Where(cond).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		profile          domain.CyclistProfile
		birthDate        sql.NullTime
		bloodType        sql.NullString
		emergencyContact sql.NullString
		emergencyPhone   sql.NullString
	)
	if err := row.Scan(
		&profile.ID, &profile.UserID, &birthDate, &bloodType,
		&emergencyContact, &emergencyPhone, &profile.CreatedAt, &profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	if birthDate.Valid {
		profile.BirthDate = &birthDate.Time
	}
	if bloodType.Valid {
		profile.BloodType = &bloodType.String
	}
	if emergencyContact.Valid {
		profile.EmergencyContact = &emergencyContact.String
	}
	if emergencyPhone.Valid {
		profile.EmergencyPhone = &emergencyPhone.String
	}

	return &profile, nil
}

// GetByID retrieves a profile by primary key.
func (r *CyclistProfileRepository) GetByID(ctx context.Context, id string) (*domain.CyclistProfile, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByUserID retrieves the profile attached to a user.
func (r *CyclistProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.CyclistProfile, error) {
	return r.getBy(ctx, squirrel.Eq{"user_id": userID})
}

// Update modifies an existing profile.
func (r *CyclistProfileRepository) Update(ctx context.Context, profile domain.CyclistProfile) error {
	stmt, args, err := r.builder.Update("byke.cyclist_profiles").
		Set("birth_date", profile.BirthDate).
		Set("blood_type", profile.BloodType).
		Set("emergency_contact", profile.EmergencyContact).
		Set("emergency_phone", profile.EmergencyPhone).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": profile.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
