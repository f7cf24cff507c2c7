package port

import (
	"context"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// OrganizationFilter narrows organization listings.
type OrganizationFilter struct {
	Search string
	Limit  int
	Offset int
}

// OrganizationRepository persists race-organizing entities.
type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	List(ctx context.Context, filter OrganizationFilter) ([]domain.Organization, error)
	Count(ctx context.Context, filter OrganizationFilter) (int, error)
	Update(ctx context.Context, org domain.Organization) error
	SoftDelete(ctx context.Context, id string) error
}

// OrganizationMemberRepository manages organization membership links.
type OrganizationMemberRepository interface {
	// Add inserts the membership, ignoring an already-existing link for the
	// same user and organization.
	Add(ctx context.Context, member domain.OrganizationMember) error
	GetByID(ctx context.Context, id string) (*domain.OrganizationMember, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.OrganizationMember, error)
	ListByUser(ctx context.Context, userID string) ([]domain.OrganizationMember, error)
	UpdateRole(ctx context.Context, id string, role domain.OrgRole) error
	Remove(ctx context.Context, id string) error
}
