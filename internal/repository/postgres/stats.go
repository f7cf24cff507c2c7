package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
)

// StatsRepository serves dashboard aggregates with raw read-only queries.
type StatsRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewStatsRepository constructs a PostgreSQL-backed stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Totals counts live users, organizations, races and registrations in one query.
func (r *StatsRepository) Totals(ctx context.Context) (port.DashboardTotals, error) {
	const stmt = `SELECT
		(SELECT COUNT(*) FROM byke.users WHERE deleted_at IS NULL),
		(SELECT COUNT(*) FROM byke.organizations WHERE deleted_at IS NULL),
		(SELECT COUNT(*) FROM byke.races WHERE deleted_at IS NULL),
		(SELECT COUNT(*) FROM byke.race_participants)`

	var totals port.DashboardTotals
	if err := r.exec.QueryRow(ctx, stmt).Scan(
		&totals.Users, &totals.Organizations, &totals.Races, &totals.Participants,
	); err != nil {
		return port.DashboardTotals{}, fmt.Errorf("query dashboard totals: %w", err)
	}

	return totals, nil
}

// MonthlyRegistrations buckets new user accounts per calendar month for the
// trailing window, oldest month first.
func (r *StatsRepository) MonthlyRegistrations(ctx context.Context, months int) ([]port.MonthlyCount, error) {
	if months <= 0 {
		months = 6
	}

	const stmt = `SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*)
		FROM byke.users
		WHERE deleted_at IS NULL
		  AND created_at >= date_trunc('month', now()) - ($1 - 1) * INTERVAL '1 month'
		GROUP BY 1
		ORDER BY 1 ASC`

	rows, err := r.exec.Query(ctx, stmt, months)
	if err != nil {
		return nil, fmt.Errorf("query monthly registrations: %w", err)
	}
	defer rows.Close()

	var buckets []port.MonthlyCount
	for rows.Next() {
		var bucket port.MonthlyCount
		if err := rows.Scan(&bucket.Month, &bucket.Count); err != nil {
			return nil, fmt.Errorf("scan monthly registrations: %w", err)
		}
		buckets = append(buckets, bucket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly registrations: %w", err)
	}

	return buckets, nil
}

// CyclistResults aggregates a profile's record across finished races: finish
// count, podiums, kilometres ridden and average rank.
func (r *StatsRepository) CyclistResults(ctx context.Context, profileID string) (port.CyclistResults, error) {
	const stmt = `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE rp.rank IS NOT NULL AND rp.rank <= 3),
			COALESCE(SUM(t.distance_km * COALESCE(ra.laps, 1)), 0),
			AVG(rp.rank)
		FROM byke.race_participants rp
		JOIN byke.races ra ON ra.id = rp.race_id
		JOIN byke.tracks t ON t.id = ra.track_id
		WHERE rp.profile_id = $1
		  AND ra.status = $2`

	var (
		results port.CyclistResults
		avgRank sql.NullFloat64
	)
	if err := r.exec.QueryRow(ctx, stmt, profileID, string(domain.RaceStatusFinished)).Scan(
		&results.RacesFinished, &results.Podiums, &results.TotalKm, &avgRank,
	); err != nil {
		return port.CyclistResults{}, fmt.Errorf("query cyclist results: %w", err)
	}
	if avgRank.Valid {
		results.AverageRank = &avgRank.Float64
	}

	return results, nil
}

// UpcomingRaces lists the races a profile is registered for that have not yet
// run, soonest first.
func (r *StatsRepository) UpcomingRaces(ctx context.Context, profileID string, limit int) ([]domain.Race, error) {
	if limit <= 0 {
		limit = 10
	}

	stmt, args, err := r.builder.Select(
		"ra.id", "ra.name", "ra.date", "ra.location_name", "ra.status", "ra.type",
		"ra.laps", "ra.price", "ra.organization_id", "ra.track_id", "ra.creator_id",
		"ra.created_at", "ra.updated_at", "ra.deleted_at",
	).
		From("byke.races ra").
		Join("byke.race_participants rp ON rp.race_id = ra.id").
		Where(squirrel.Eq{"rp.profile_id": profileID}).
		Where(squirrel.Eq{"ra.deleted_at": nil}).
		Where(squirrel.Expr("ra.date >= now()")).
		Where(squirrel.Eq{"ra.status": []string{
			string(domain.RaceStatusScheduled),
			string(domain.RaceStatusRegistrationClosed),
			string(domain.RaceStatusInProgress),
		}}).
		OrderBy("ra.date ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upcoming races sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query upcoming races: %w", err)
	}
	defer rows.Close()

	var races []domain.Race
	for rows.Next() {
		race, err := scanRace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upcoming race: %w", err)
		}
		races = append(races, *race)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upcoming races: %w", err)
	}

	return races, nil
}
