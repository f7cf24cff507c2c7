package port

import (
	"context"
	"time"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// UserFilter narrows user listings.
type UserFilter struct {
	Search     string
	SystemRole *domain.SystemRole
	IsActive   *bool
	Limit      int
	Offset     int
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByAPIToken(ctx context.Context, token string) (*domain.User, error)
	// GetWithAccess loads a user together with role assignments and the
	// permissions behind them, ready for flattening.
	GetWithAccess(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
	Update(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	SetAPIToken(ctx context.Context, id string, token *string) error
	SoftDelete(ctx context.Context, id string) error
	AssignRoles(ctx context.Context, userID string, roleIDs []string) (int, error)
	RevokeRoles(ctx context.Context, userID string, roleIDs []string) (int, error)
}

// CyclistProfileRepository persists rider profiles.
type CyclistProfileRepository interface {
	Create(ctx context.Context, profile domain.CyclistProfile) error
	GetByID(ctx context.Context, id string) (*domain.CyclistProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.CyclistProfile, error)
	Update(ctx context.Context, profile domain.CyclistProfile) error
}
