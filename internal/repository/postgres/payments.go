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

// PaymentRepository implements payment persistence.
type PaymentRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPaymentRepository constructs a PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *PaymentRepository) WithTx(tx pgx.Tx) *PaymentRepository {
	if tx == nil {
		return r
	}
	return &PaymentRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	stmt, args, err := r.builder.Insert("byke.payments").
		Columns("id", "user_id", "race_id", "amount", "currency", "status", "transaction_id").
		Values(payment.ID, payment.UserID, payment.RaceID, payment.Amount, payment.Currency, string(payment.Status), payment.TransactionID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment       domain.Payment
		status        string
		transactionID sql.NullString
	)
	if err := row.Scan(
		&payment.ID, &payment.UserID, &payment.RaceID, &payment.Amount,
		&payment.Currency, &status, &transactionID, &payment.CreatedAt, &payment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatus(status)
	if transactionID.Valid {
		payment.TransactionID = &transactionID.String
	}
	return &payment, nil
}

const paymentColumns = "id, user_id, race_id, amount, currency, status, transaction_id, created_at, updated_at"

// GetByID retrieves a payment by primary key.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	stmt, args, err := r.builder.Select(paymentColumns).
		From("byke.payments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select payment sql: %w", err)
	}

	payment, err := scanPayment(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) listBy(ctx context.Context, cond squirrel.Sqlizer) ([]domain.Payment, error) {
	stmt, args, err := r.builder.Select(paymentColumns).
		From("byke.payments").
		Where(cond).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list payments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// ListByUser retrieves a user's payments, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return r.listBy(ctx, squirrel.Eq{"user_id": userID})
}

// ListByRace retrieves a race's payments, newest first.
func (r *PaymentRepository) ListByRace(ctx context.Context, raceID string) ([]domain.Payment, error) {
	return r.listBy(ctx, squirrel.Eq{"race_id": raceID})
}

// UpdateStatus transitions the payment state and records the gateway reference.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID *string) error {
	query := r.builder.Update("byke.payments").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	if transactionID != nil {
		query = query.Set("transaction_id", *transactionID)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update payment status sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
