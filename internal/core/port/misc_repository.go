package port

import (
	"context"
	"time"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// BicycleRepository persists bicycles owned by cyclist profiles.
type BicycleRepository interface {
	Create(ctx context.Context, bicycle domain.Bicycle) error
	GetByID(ctx context.Context, id string) (*domain.Bicycle, error)
	ListByProfile(ctx context.Context, profileID string) ([]domain.Bicycle, error)
	Update(ctx context.Context, bicycle domain.Bicycle) error
	Deactivate(ctx context.Context, id string) error
}

// PaymentRepository persists registration payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	ListByRace(ctx context.Context, raceID string) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID *string) error
}

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	UserID string
	Entity string
	Action *domain.AuditAction
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// AuditLogRepository persists the immutable audit trail.
type AuditLogRepository interface {
	Insert(ctx context.Context, entry domain.AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditLog, error)
	Count(ctx context.Context, filter AuditFilter) (int, error)
}

// DashboardTotals aggregates platform-wide entity counts.
type DashboardTotals struct {
	Users         int
	Organizations int
	Races         int
	Participants  int
}

// MonthlyCount is a per-month bucket of registrations.
type MonthlyCount struct {
	Month string
	Count int
}

// CyclistResults summarizes a profile's finished races. AverageRank is nil
// until the cyclist has at least one ranked finish.
type CyclistResults struct {
	RacesFinished int
	Podiums       int
	TotalKm       float64
	AverageRank   *float64
}

// StatsRepository serves dashboard aggregates.
type StatsRepository interface {
	Totals(ctx context.Context) (DashboardTotals, error)
	MonthlyRegistrations(ctx context.Context, months int) ([]MonthlyCount, error)
	CyclistResults(ctx context.Context, profileID string) (CyclistResults, error)
	UpcomingRaces(ctx context.Context, profileID string, limit int) ([]domain.Race, error)
}
