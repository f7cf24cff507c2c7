package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/security"
)

func newAuthFixture(t *testing.T) (*AuthService, *userRepoMock, *profileRepoMock, *roleRepoMock, *publisherMock) {
	t.Helper()

	users := newUserRepoMock()
	profiles := newProfileRepoMock()
	roles := newRoleRepoMock()
	events := &publisherMock{}

	tokens, err := security.NewTokenManager("test-secret", "byke-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	service := NewAuthService(users, profiles, roles, tokens, security.NewHasher(bcrypt.MinCost), events)
	return service, users, profiles, roles, events
}

func seedActiveUser(t *testing.T, service *AuthService, users *userRepoMock, email, password string) *domain.User {
	t.Helper()

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: password,
		FullName: "Test Rider",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestRegisterCreatesCyclistWithProfile(t *testing.T) {
	service, users, profiles, roles, events := newAuthFixture(t)
	roles.roles["role-user"] = domain.Role{ID: "role-user", Name: DefaultCyclistRole}

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "  Ana@Example.COM ",
		Password: "supersecret",
		FullName: "Ana Gomez",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.Email != "ana@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if user.SystemRole != domain.SystemRoleCyclist {
		t.Errorf("expected CYCLIST system role, got %q", user.SystemRole)
	}
	if user.PasswordHash != "" {
		t.Error("expected password hash to be stripped from result")
	}

	stored := users.users[user.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "supersecret" {
		t.Error("expected stored password to be hashed")
	}
	if _, err := profiles.GetByUserID(context.Background(), user.ID); err != nil {
		t.Errorf("expected cyclist profile, got %v", err)
	}
	if got := users.userRoles[user.ID]; len(got) != 1 || got[0] != "role-user" {
		t.Errorf("expected default role assignment, got %v", got)
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected 1 registration event, got %d", len(events.registered))
	}
	if events.registered[0].UserID != user.ID {
		t.Errorf("event user id = %q, want %q", events.registered[0].UserID, user.ID)
	}
}

func TestRegisterToleratesMissingDefaultRole(t *testing.T) {
	service, _, _, _, _ := newAuthFixture(t)

	if _, err := service.Register(context.Background(), RegisterInput{
		Email:    "solo@example.com",
		Password: "supersecret",
		FullName: "Solo Rider",
	}); err != nil {
		t.Fatalf("Register without seeded roles: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	seedActiveUser(t, service, users, "taken@example.com", "supersecret")

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Password: "supersecret",
		FullName: "Second Rider",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	service, _, _, _, _ := newAuthFixture(t)

	if _, err := service.Register(context.Background(), RegisterInput{
		Email:    "short@example.com",
		Password: "short",
		FullName: "Short Pass",
	}); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestLoginReturnsTokenAndPermissions(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	user := seedActiveUser(t, service, users, "login@example.com", "supersecret")

	stored := users.users[user.ID]
	stored.Roles = []domain.UserRole{{
		UserID: user.ID,
		RoleID: "role-1",
		Role: &domain.Role{
			ID:   "role-1",
			Name: "USER",
			Permissions: []domain.RolePermission{
				{Permission: &domain.Permission{ID: "p1", Action: rbac.PermRacesRead}},
			},
		},
	}}
	users.users[user.ID] = stored

	result, err := service.Login(context.Background(), "login@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected signed token")
	}
	if result.User.PasswordHash != "" {
		t.Error("expected sanitized user")
	}
	if len(result.Permissions) != 1 || result.Permissions[0] != rbac.PermRacesRead {
		t.Errorf("unexpected permissions: %v", result.Permissions)
	}
	if result.MenuPrefix != rbac.RoutePrefix(domain.SystemRoleCyclist) {
		t.Errorf("unexpected menu prefix %q", result.MenuPrefix)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	seedActiveUser(t, service, users, "wrong@example.com", "supersecret")

	if _, err := service.Login(context.Background(), "wrong@example.com", "nope-nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _, _, _, _ := newAuthFixture(t)

	if _, err := service.Login(context.Background(), "ghost@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	user := seedActiveUser(t, service, users, "inactive@example.com", "supersecret")

	stored := users.users[user.ID]
	stored.IsActive = false
	users.users[user.ID] = stored

	if _, err := service.Login(context.Background(), "inactive@example.com", "supersecret"); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}

func TestResolveBearerAcceptsJWT(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	seedActiveUser(t, service, users, "bearer@example.com", "supersecret")

	result, err := service.Login(context.Background(), "bearer@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	resolved, err := service.ResolveBearer(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("ResolveBearer: %v", err)
	}
	if resolved.ID != result.User.ID {
		t.Errorf("resolved user %q, want %q", resolved.ID, result.User.ID)
	}
	if resolved.PasswordHash != "" {
		t.Error("expected sanitized user")
	}
}

func TestResolveBearerFallsBackToAPIToken(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	user := seedActiveUser(t, service, users, "api@example.com", "supersecret")

	token, err := service.IssueAPIToken(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("IssueAPIToken: %v", err)
	}

	resolved, err := service.ResolveBearer(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveBearer with api token: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("resolved user %q, want %q", resolved.ID, user.ID)
	}
}

func TestResolveBearerRejectsGarbage(t *testing.T) {
	service, _, _, _, _ := newAuthFixture(t)

	if _, err := service.ResolveBearer(context.Background(), "not-a-credential"); !errors.Is(err, ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestRevokeAPIToken(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	user := seedActiveUser(t, service, users, "revoke@example.com", "supersecret")

	token, err := service.IssueAPIToken(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("IssueAPIToken: %v", err)
	}
	if err := service.RevokeAPIToken(context.Background(), user.ID); err != nil {
		t.Fatalf("RevokeAPIToken: %v", err)
	}
	if _, err := service.ResolveBearer(context.Background(), token); err == nil {
		t.Fatal("expected revoked token to be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	user := seedActiveUser(t, service, users, "change@example.com", "supersecret")

	if err := service.ChangePassword(context.Background(), user.ID, "supersecret", "evenmoresecret"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := service.Login(context.Background(), "change@example.com", "evenmoresecret"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := service.Login(context.Background(), "change@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected old password to be rejected, got %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	service, users, _, _, _ := newAuthFixture(t)
	user := seedActiveUser(t, service, users, "curr@example.com", "supersecret")

	if err := service.ChangePassword(context.Background(), user.ID, "wrong-password", "evenmoresecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
