package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// DashboardService assembles per-user navigation and platform statistics.
type DashboardService struct {
	users     port.UserRepository
	profiles  port.CyclistProfileRepository
	stats     port.StatsRepository
	menuCache port.MenuCache
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	users port.UserRepository,
	profiles port.CyclistProfileRepository,
	stats port.StatsRepository,
	menuCache port.MenuCache,
) *DashboardService {
	return &DashboardService{users: users, profiles: profiles, stats: stats, menuCache: menuCache}
}

// Menu returns the navigation tree a user is allowed to see, serving from the
// cache when possible.
func (s *DashboardService) Menu(ctx context.Context, userID string) ([]rbac.MenuItem, error) {
	if s.menuCache != nil {
		if cached, ok, err := s.menuCache.Get(ctx, userID); err == nil && ok {
			return cached, nil
		}
	}

	user, err := s.users.GetWithAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user access: %w", err)
	}

	menu := rbac.BuildMenu(rbac.Flatten(user), user.SystemRole)

	if s.menuCache != nil {
		// Cache write failures only cost the next request a rebuild.
		_ = s.menuCache.Set(ctx, userID, menu)
	}

	return menu, nil
}

// Totals returns platform-wide entity counts.
func (s *DashboardService) Totals(ctx context.Context) (port.DashboardTotals, error) {
	totals, err := s.stats.Totals(ctx)
	if err != nil {
		return port.DashboardTotals{}, fmt.Errorf("load dashboard totals: %w", err)
	}
	return totals, nil
}

// MonthlyRegistrations returns user signups bucketed by month.
func (s *DashboardService) MonthlyRegistrations(ctx context.Context, months int) ([]port.MonthlyCount, error) {
	counts, err := s.stats.MonthlyRegistrations(ctx, months)
	if err != nil {
		return nil, fmt.Errorf("load monthly registrations: %w", err)
	}
	return counts, nil
}

func (s *DashboardService) callerProfile(ctx context.Context, userID string) (*domain.CyclistProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load cyclist profile: %w", err)
	}
	return profile, nil
}

// CyclistResults returns the caller's record across finished races.
func (s *DashboardService) CyclistResults(ctx context.Context, userID string) (port.CyclistResults, error) {
	profile, err := s.callerProfile(ctx, userID)
	if err != nil {
		return port.CyclistResults{}, err
	}

	results, err := s.stats.CyclistResults(ctx, profile.ID)
	if err != nil {
		return port.CyclistResults{}, fmt.Errorf("load cyclist results: %w", err)
	}
	return results, nil
}

// UpcomingSchedule lists the races the caller is registered for that have not
// yet run, soonest first.
func (s *DashboardService) UpcomingSchedule(ctx context.Context, userID string, limit int) ([]domain.Race, error) {
	profile, err := s.callerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	races, err := s.stats.UpcomingRaces(ctx, profile.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("load upcoming races: %w", err)
	}
	return races, nil
}

// Summary aggregates the session payload served after login: the user, their
// flattened permissions, and their navigation tree.
type Summary struct {
	User        domain.User
	Permissions []string
	MenuPrefix  string
	Menu        []rbac.MenuItem
}

// SessionSummary loads everything the frontend needs to render a session.
func (s *DashboardService) SessionSummary(ctx context.Context, userID string) (*Summary, error) {
	user, err := s.users.GetWithAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user access: %w", err)
	}

	granted := rbac.Flatten(user)
	menu, err := s.Menu(ctx, userID)
	if err != nil {
		return nil, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &Summary{
		User:        sanitized,
		Permissions: granted.Actions(),
		MenuPrefix:  rbac.RoutePrefix(user.SystemRole),
		Menu:        menu,
	}, nil
}
