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
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

var (
	// ErrOrganizationNotFound is returned when the referenced organization does not exist.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrSlugTaken indicates an organization with the provided slug already exists.
	ErrSlugTaken = errors.New("organization slug already taken")
	// ErrMemberNotFound is returned when the referenced membership does not exist.
	ErrMemberNotFound = errors.New("organization member not found")
	// ErrInvalidOrgRole indicates a membership role outside the allowed set.
	ErrInvalidOrgRole = errors.New("invalid organization role")
)

// CreateOrganizationInput captures the payload for creating an organization.
type CreateOrganizationInput struct {
	Name        string
	Slug        string
	Description *string
	LogoURL     *string
	OwnerID     string
}

// UpdateOrganizationInput captures the mutable fields of an organization.
type UpdateOrganizationInput struct {
	Name        *string
	Description *string
	LogoURL     *string
}

// AddMemberInput captures the payload for adding an organization member.
type AddMemberInput struct {
	UserID   string
	Role     domain.OrgRole
	Position *string
}

// OrganizationService manages clubs and their memberships.
type OrganizationService struct {
	organizations port.OrganizationRepository
	members       port.OrganizationMemberRepository
	users         port.UserRepository
}

// NewOrganizationService constructs an OrganizationService.
func NewOrganizationService(
	organizations port.OrganizationRepository,
	members port.OrganizationMemberRepository,
	users port.UserRepository,
) *OrganizationService {
	return &OrganizationService{organizations: organizations, members: members, users: users}
}

// CreateOrganization provisions an organization and registers the owner as its
// first active member.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (*domain.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fmt.Errorf("organization slug is required")
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup owner: %w", err)
	}

	if existing, err := s.organizations.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, ErrSlugTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup organization by slug: %w", err)
	}

	now := time.Now().UTC()
	organization := domain.Organization{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.organizations.Create(ctx, organization); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}

	owner := domain.OrganizationMember{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		OrganizationID: organization.ID,
		Role:           domain.OrgRoleOwner,
		IsActive:       true,
		JoinedAt:       now,
	}
	if err := s.members.Add(ctx, owner); err != nil {
		return nil, fmt.Errorf("add owner membership: %w", err)
	}

	return &organization, nil
}

// GetOrganization returns an organization by identifier.
func (s *OrganizationService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	organization, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("lookup organization: %w", err)
	}
	return organization, nil
}

// GetOrganizationBySlug returns an organization by its public slug.
func (s *OrganizationService) GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	organization, err := s.organizations.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("lookup organization by slug: %w", err)
	}
	return organization, nil
}

// ListOrganizations returns a page of organizations with the total count.
func (s *OrganizationService) ListOrganizations(ctx context.Context, filter port.OrganizationFilter) ([]domain.Organization, int, error) {
	organizations, err := s.organizations.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}
	total, err := s.organizations.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}
	return organizations, total, nil
}

// UpdateOrganization applies partial changes to an organization.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, id string, input UpdateOrganizationInput) (*domain.Organization, error) {
	organization, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("organization name is required")
		}
		organization.Name = name
	}
	if input.Description != nil {
		organization.Description = input.Description
	}
	if input.LogoURL != nil {
		organization.LogoURL = input.LogoURL
	}

	organization.UpdatedAt = time.Now().UTC()
	if err := s.organizations.Update(ctx, *organization); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}

	return organization, nil
}

// DeleteOrganization soft deletes an organization.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, id string) error {
	if err := s.organizations.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

// AddMember registers a user as a member of an organization. Adding someone who
// already belongs is a no-op.
func (s *OrganizationService) AddMember(ctx context.Context, organizationID string, input AddMemberInput) (*domain.OrganizationMember, error) {
	if !validOrgRole(input.Role) {
		return nil, ErrInvalidOrgRole
	}

	if _, err := s.GetOrganization(ctx, organizationID); err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(input.UserID)
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	member := domain.OrganizationMember{
		ID:             uuid.NewString(),
		UserID:         userID,
		OrganizationID: organizationID,
		Position:       input.Position,
		Role:           input.Role,
		IsActive:       true,
		JoinedAt:       time.Now().UTC(),
	}
	if err := s.members.Add(ctx, member); err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	return &member, nil
}

// ListMembers returns the members of an organization.
func (s *OrganizationService) ListMembers(ctx context.Context, organizationID string) ([]domain.OrganizationMember, error) {
	members, err := s.members.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ListUserMemberships returns the organizations a user belongs to.
func (s *OrganizationService) ListUserMemberships(ctx context.Context, userID string) ([]domain.OrganizationMember, error) {
	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return memberships, nil
}

// UpdateMemberRole changes a member's role within the organization.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, memberID string, role domain.OrgRole) error {
	if !validOrgRole(role) {
		return ErrInvalidOrgRole
	}

	if err := s.members.UpdateRole(ctx, memberID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("update member role: %w", err)
	}
	return nil
}

// RemoveMember removes a membership record.
func (s *OrganizationService) RemoveMember(ctx context.Context, memberID string) error {
	if err := s.members.Remove(ctx, memberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func validOrgRole(role domain.OrgRole) bool {
	switch role {
	case domain.OrgRoleOwner, domain.OrgRoleAdmin, domain.OrgRoleStaff, domain.OrgRoleMember:
		return true
	default:
		return false
	}
}

// Slugify lowercases the input and collapses runs of non-alphanumeric
// characters into single hyphens.
func Slugify(value string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
