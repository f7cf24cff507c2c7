package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
)

func newDashboardFixture() (*DashboardService, *userRepoMock, *statsRepoMock, *menuCacheMock) {
	users := newUserRepoMock()
	profiles := newProfileRepoMock()
	stats := &statsRepoMock{}
	menuCache := newMenuCacheMock()

	profiles.profiles["profile-1"] = domain.CyclistProfile{ID: "profile-1", UserID: "user-1"}

	users.users["user-1"] = domain.User{
		ID:         "user-1",
		Email:      "rider@example.com",
		IsActive:   true,
		SystemRole: domain.SystemRoleCyclist,
		Roles: []domain.UserRole{{
			UserID: "user-1",
			RoleID: "role-1",
			Role: &domain.Role{
				ID:   "role-1",
				Name: "USER",
				Permissions: []domain.RolePermission{
					{Permission: &domain.Permission{ID: "p1", Action: rbac.PermRacesRead}},
				},
			},
		}},
	}

	return NewDashboardService(users, profiles, stats, menuCache), users, stats, menuCache
}

func TestMenuBuildsAndCachesOnMiss(t *testing.T) {
	service, _, _, menuCache := newDashboardFixture()

	menu, err := service.Menu(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(menu) == 0 {
		t.Fatal("expected at least the ungated menu entries")
	}
	if menuCache.sets != 1 {
		t.Errorf("expected 1 cache write, got %d", menuCache.sets)
	}
}

func TestMenuServesCachedCopy(t *testing.T) {
	service, _, _, menuCache := newDashboardFixture()
	menuCache.entries["user-1"] = []rbac.MenuItem{{Label: "Cached", Route: "/cached"}}

	menu, err := service.Menu(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if len(menu) != 1 || menu[0].Label != "Cached" {
		t.Errorf("expected cached menu, got %v", menu)
	}
	if menuCache.hits != 1 {
		t.Errorf("expected 1 cache hit, got %d", menuCache.hits)
	}
	if menuCache.sets != 0 {
		t.Errorf("expected no cache writes on hit, got %d", menuCache.sets)
	}
}

func TestMenuUnknownUser(t *testing.T) {
	service, _, _, _ := newDashboardFixture()

	if _, err := service.Menu(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTotalsPassthrough(t *testing.T) {
	service, _, stats, _ := newDashboardFixture()
	stats.totals = port.DashboardTotals{Users: 12, Organizations: 3, Races: 5, Participants: 80}

	totals, err := service.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals != stats.totals {
		t.Errorf("totals = %+v, want %+v", totals, stats.totals)
	}
}

func TestMonthlyRegistrations(t *testing.T) {
	service, _, stats, _ := newDashboardFixture()
	stats.monthly = []port.MonthlyCount{{Month: "2026-07", Count: 4}, {Month: "2026-08", Count: 9}}

	counts, err := service.MonthlyRegistrations(context.Background(), 2)
	if err != nil {
		t.Fatalf("MonthlyRegistrations: %v", err)
	}
	if len(counts) != 2 || counts[1].Count != 9 {
		t.Errorf("counts = %v", counts)
	}
}

func TestCyclistResults(t *testing.T) {
	service, _, stats, _ := newDashboardFixture()
	avg := 4.5
	stats.results = port.CyclistResults{RacesFinished: 6, Podiums: 2, TotalKm: 312.5, AverageRank: &avg}

	results, err := service.CyclistResults(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CyclistResults: %v", err)
	}
	if results.RacesFinished != 6 || results.Podiums != 2 {
		t.Errorf("results = %+v", results)
	}
	if results.AverageRank == nil || *results.AverageRank != avg {
		t.Errorf("average rank = %v", results.AverageRank)
	}
}

func TestCyclistResultsWithoutProfile(t *testing.T) {
	service, _, _, _ := newDashboardFixture()

	if _, err := service.CyclistResults(context.Background(), "no-profile"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestUpcomingSchedule(t *testing.T) {
	service, _, stats, _ := newDashboardFixture()
	stats.upcoming = []domain.Race{
		{ID: "race-1", Name: "Vuelta al Lago", Status: domain.RaceStatusScheduled},
	}

	races, err := service.UpcomingSchedule(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("UpcomingSchedule: %v", err)
	}
	if len(races) != 1 || races[0].ID != "race-1" {
		t.Errorf("races = %v", races)
	}
}

func TestSessionSummary(t *testing.T) {
	service, _, _, _ := newDashboardFixture()

	summary, err := service.SessionSummary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("SessionSummary: %v", err)
	}
	if summary.User.PasswordHash != "" {
		t.Error("expected sanitized user")
	}
	if len(summary.Permissions) != 1 || summary.Permissions[0] != rbac.PermRacesRead {
		t.Errorf("permissions = %v", summary.Permissions)
	}
	if summary.MenuPrefix != rbac.RoutePrefix(domain.SystemRoleCyclist) {
		t.Errorf("menu prefix = %q", summary.MenuPrefix)
	}
	if len(summary.Menu) == 0 {
		t.Error("expected a menu")
	}
}
