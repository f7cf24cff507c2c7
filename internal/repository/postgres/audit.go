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

// AuditLogRepository implements the append-only audit trail.
type AuditLogRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAuditLogRepository constructs a PostgreSQL-backed audit repository.
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert appends an audit entry. Entries are never updated or deleted.
func (r *AuditLogRepository) Insert(ctx context.Context, entry domain.AuditLog) error {
	stmt, args, err := r.builder.Insert("byke.audit_logs").
		Columns("id", "user_id", "action", "entity", "entity_id", "old_data", "new_data", "ip_address", "user_agent").
		Values(entry.ID, entry.UserID, string(entry.Action), entry.Entity, entry.EntityID, entry.OldData, entry.NewData, entry.IPAddress, entry.UserAgent).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert audit entry sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func applyAuditFilter(query squirrel.SelectBuilder, filter port.AuditFilter) squirrel.SelectBuilder {
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Entity != "" {
		query = query.Where(squirrel.Eq{"entity": filter.Entity})
	}
	if filter.Action != nil {
		query = query.Where(squirrel.Eq{"action": string(*filter.Action)})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"created_at": *filter.To})
	}
	return query
}

// List retrieves audit entries matching the filter, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filter port.AuditFilter) ([]domain.AuditLog, error) {
	query := applyAuditFilter(
		r.builder.Select("id", "user_id", "action", "entity", "entity_id", "old_data", "new_data", "ip_address", "user_agent", "created_at").
			From("byke.audit_logs"),
		filter,
	).OrderBy("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var (
			entry     domain.AuditLog
			userID    sql.NullString
			action    string
			userAgent sql.NullString
		)
		if err := rows.Scan(
			&entry.ID, &userID, &action, &entry.Entity, &entry.EntityID,
			&entry.OldData, &entry.NewData, &entry.IPAddress, &userAgent, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if userID.Valid {
			entry.UserID = &userID.String
		}
		entry.Action = domain.AuditAction(action)
		if userAgent.Valid {
			entry.UserAgent = &userAgent.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}

// Count reports how many audit entries match the filter.
func (r *AuditLogRepository) Count(ctx context.Context, filter port.AuditFilter) (int, error) {
	stmt, args, err := applyAuditFilter(r.builder.Select("COUNT(*)").From("byke.audit_logs"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count audit entries sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}

	return count, nil
}
