package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/security"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// DefaultCyclistRole is the RBAC role granted to self-registered accounts.
const DefaultCyclistRole = "USER"

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrEmailTaken indicates a user with the provided email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidAccessToken indicates the presented credential is malformed or unknown.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the presented token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
)

// RegisterInput captures the payload for self-service registration.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    *string
}

// AuthResult bundles a signed token with the authenticated user and their permissions.
type AuthResult struct {
	Token       string
	User        domain.User
	Permissions []string
	MenuPrefix  string
}

// AuthService coordinates registration, login, and bearer resolution.
type AuthService struct {
	users    port.UserRepository
	profiles port.CyclistProfileRepository
	roles    port.RoleRepository
	tokens   *security.TokenManager
	hasher   *security.Hasher
	events   port.EventPublisher
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	profiles port.CyclistProfileRepository,
	roles port.RoleRepository,
	tokens *security.TokenManager,
	hasher *security.Hasher,
	events port.EventPublisher,
) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		roles:    roles,
		tokens:   tokens,
		hasher:   hasher,
		events:   events,
	}
}

// Register provisions a cyclist account with an empty rider profile and the
// default role, then publishes a registration event.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, fmt.Errorf("full name is required")
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        input.Phone,
		IsActive:     true,
		SystemRole:   domain.SystemRoleCyclist,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	profile := domain.CyclistProfile{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create cyclist profile: %w", err)
	}

	if role, err := s.roles.GetByName(ctx, DefaultCyclistRole); err == nil {
		if _, err := s.users.AssignRoles(ctx, user.ID, []string{role.ID}); err != nil {
			return nil, fmt.Errorf("assign default role: %w", err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup default role: %w", err)
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Email:        user.Email,
			FullName:     user.FullName,
			SystemRole:   string(user.SystemRole),
			RegisteredAt: now,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			return nil, fmt.Errorf("publish registration event: %w", err)
		}
	}

	sanitized := user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// Login validates credentials and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	loaded, err := s.users.GetWithAccess(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load user access: %w", err)
	}

	signed, _, err := s.tokens.Issue(loaded.ID, loaded.Email, string(loaded.SystemRole))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	granted := rbac.Flatten(loaded)

	sanitized := *loaded
	sanitized.PasswordHash = ""

	return &AuthResult{
		Token:       signed,
		User:        sanitized,
		Permissions: granted.Actions(),
		MenuPrefix:  rbac.RoutePrefix(loaded.SystemRole),
	}, nil
}

// ResolveBearer maps a bearer credential to its user, loading role and permission
// links. Signed tokens are tried first; anything unparseable falls back to the
// opaque per-user API token.
func (s *AuthService) ResolveBearer(ctx context.Context, credential string) (*domain.User, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrInvalidAccessToken
	}

	if claims, err := s.tokens.Parse(credential); err == nil {
		return s.loadActive(ctx, claims.UserID)
	} else if errors.Is(err, security.ErrExpiredToken) {
		return nil, ErrExpiredAccessToken
	}

	user, err := s.users.GetByAPIToken(ctx, credential)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAccessToken
		}
		return nil, fmt.Errorf("lookup api token: %w", err)
	}

	return s.loadActive(ctx, user.ID)
}

func (s *AuthService) loadActive(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetWithAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAccessToken
		}
		return nil, fmt.Errorf("load user access: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// IssueAPIToken mints and stores a fresh opaque API token, replacing any prior one.
func (s *AuthService) IssueAPIToken(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	raw, err := security.GenerateAPIToken()
	if err != nil {
		return "", fmt.Errorf("generate api token: %w", err)
	}

	if err := s.users.SetAPIToken(ctx, userID, &raw); err != nil {
		return "", fmt.Errorf("store api token: %w", err)
	}

	return raw, nil
}

// RevokeAPIToken clears the user's opaque API token.
func (s *AuthService) RevokeAPIToken(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	if err := s.users.SetAPIToken(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear api token: %w", err)
	}

	return nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if len(next) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}
