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
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/security"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// DefaultOrganizerRole is the RBAC role granted to organizer accounts.
const DefaultOrganizerRole = "ORGANIZER"

// ErrProfileNotFound is returned when the referenced cyclist profile does not exist.
var ErrProfileNotFound = errors.New("cyclist profile not found")

// CreateUserInput captures the payload for administrative user creation.
type CreateUserInput struct {
	Email            string
	Password         string
	FullName         string
	Phone            *string
	SystemRole       domain.SystemRole
	RoleIDs          []string
	OrganizationName string
}

// UpdateUserInput captures the mutable fields of a user account.
type UpdateUserInput struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
	IsActive  *bool
}

// UpdateProfileInput captures the mutable fields of a cyclist profile.
type UpdateProfileInput struct {
	BirthDate        *time.Time
	BloodType        *string
	EmergencyContact *string
	EmergencyPhone   *string
}

// UserService manages accounts beyond self-service registration.
type UserService struct {
	users         port.UserRepository
	profiles      port.CyclistProfileRepository
	roles         port.RoleRepository
	organizations *OrganizationService
	hasher        *security.Hasher
	menuCache     port.MenuCache
}

// NewUserService constructs a UserService.
func NewUserService(
	users port.UserRepository,
	profiles port.CyclistProfileRepository,
	roles port.RoleRepository,
	organizations *OrganizationService,
	hasher *security.Hasher,
	menuCache port.MenuCache,
) *UserService {
	return &UserService{
		users:         users,
		profiles:      profiles,
		roles:         roles,
		organizations: organizations,
		hasher:        hasher,
		menuCache:     menuCache,
	}
}

// CreateUser provisions an account with role-dependent side effects: cyclists
// get an empty rider profile, organizers get a club they own.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
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

	systemRole := input.SystemRole
	if systemRole == "" {
		systemRole = domain.SystemRoleCyclist
	}
	switch systemRole {
	case domain.SystemRoleAdmin, domain.SystemRoleOrganizer, domain.SystemRoleCyclist:
	default:
		return nil, fmt.Errorf("invalid system role %q", systemRole)
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
		SystemRole:   systemRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	switch systemRole {
	case domain.SystemRoleCyclist:
		profile := domain.CyclistProfile{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create cyclist profile: %w", err)
		}
		if err := s.assignRoleByName(ctx, user.ID, DefaultCyclistRole); err != nil {
			return nil, err
		}
	case domain.SystemRoleOrganizer:
		organizationName := strings.TrimSpace(input.OrganizationName)
		if organizationName == "" {
			organizationName = fullName
		}
		if _, err := s.organizations.CreateOrganization(ctx, CreateOrganizationInput{
			Name:    organizationName,
			OwnerID: user.ID,
		}); err != nil {
			return nil, fmt.Errorf("provision organization: %w", err)
		}
		if err := s.assignRoleByName(ctx, user.ID, DefaultOrganizerRole); err != nil {
			return nil, err
		}
	}

	if len(input.RoleIDs) > 0 {
		if _, err := s.users.AssignRoles(ctx, user.ID, input.RoleIDs); err != nil {
			return nil, fmt.Errorf("assign roles: %w", err)
		}
	}

	sanitized := user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

func (s *UserService) assignRoleByName(ctx context.Context, userID, roleName string) error {
	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup role %q: %w", roleName, err)
	}

	if _, err := s.users.AssignRoles(ctx, userID, []string{role.ID}); err != nil {
		return fmt.Errorf("assign role %q: %w", roleName, err)
	}
	return nil
}

// GetUser returns an account with its role and permission links.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetWithAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// ListUsers returns a page of accounts with the total count.
func (s *UserService) ListUsers(ctx context.Context, filter port.UserFilter) ([]domain.User, int, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, total, nil
}

// UpdateUser applies partial changes to an account.
func (s *UserService) UpdateUser(ctx context.Context, userID string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("full name is required")
		}
		user.FullName = fullName
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, *user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if input.IsActive != nil && s.menuCache != nil {
		_ = s.menuCache.Invalidate(ctx, userID)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}

// DeactivateUser soft deletes an account and drops its cached menu.
func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	if err := s.users.SoftDelete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deactivate user: %w", err)
	}

	if s.menuCache != nil {
		_ = s.menuCache.Invalidate(ctx, userID)
	}

	return nil
}

// GetProfile returns the cyclist profile attached to a user.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.CyclistProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies partial changes to a cyclist profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.CyclistProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.BirthDate != nil {
		profile.BirthDate = input.BirthDate
	}
	if input.BloodType != nil {
		profile.BloodType = input.BloodType
	}
	if input.EmergencyContact != nil {
		profile.EmergencyContact = input.EmergencyContact
	}
	if input.EmergencyPhone != nil {
		profile.EmergencyPhone = input.EmergencyPhone
	}

	profile.UpdatedAt = time.Now().UTC()
	if err := s.profiles.Update(ctx, *profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return profile, nil
}
