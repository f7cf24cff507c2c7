package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

func newOrganizationFixture() (*OrganizationService, *orgRepoMock, *memberRepoMock, *userRepoMock) {
	organizations := newOrgRepoMock()
	members := newMemberRepoMock()
	users := newUserRepoMock()

	users.users["user-1"] = domain.User{ID: "user-1", Email: "owner@example.com", IsActive: true}

	return NewOrganizationService(organizations, members, users), organizations, members, users
}

func TestCreateOrganizationAddsOwnerMembership(t *testing.T) {
	service, _, members, _ := newOrganizationFixture()

	organization, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Club Andino de Ciclismo",
		OwnerID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	if organization.Slug != "club-andino-de-ciclismo" {
		t.Errorf("slug = %q", organization.Slug)
	}

	memberships, err := members.ListByOrganization(context.Background(), organization.ID)
	if err != nil {
		t.Fatalf("ListByOrganization: %v", err)
	}
	if len(memberships) != 1 {
		t.Fatalf("expected 1 member, got %d", len(memberships))
	}
	owner := memberships[0]
	if owner.UserID != "user-1" || owner.Role != domain.OrgRoleOwner || !owner.IsActive {
		t.Errorf("unexpected owner membership: %+v", owner)
	}
}

func TestCreateOrganizationSlugTaken(t *testing.T) {
	service, _, _, _ := newOrganizationFixture()

	if _, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Club Uno",
		Slug:    "club",
		OwnerID: "user-1",
	}); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	if _, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Club Dos",
		Slug:    "club",
		OwnerID: "user-1",
	}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestCreateOrganizationUnknownOwner(t *testing.T) {
	service, _, _, _ := newOrganizationFixture()

	if _, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Ghost Club",
		OwnerID: "ghost",
	}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	service, _, _, users := newOrganizationFixture()
	users.users["user-2"] = domain.User{ID: "user-2", IsActive: true}

	organization, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Club",
		OwnerID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	if _, err := service.AddMember(context.Background(), organization.ID, AddMemberInput{
		UserID: "user-2",
		Role:   domain.OrgRole("JANITOR"),
	}); !errors.Is(err, ErrInvalidOrgRole) {
		t.Fatalf("expected ErrInvalidOrgRole, got %v", err)
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	service, _, members, users := newOrganizationFixture()
	users.users["user-2"] = domain.User{ID: "user-2", IsActive: true}

	organization, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Club",
		OwnerID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := service.AddMember(context.Background(), organization.ID, AddMemberInput{
			UserID: "user-2",
			Role:   domain.OrgRoleStaff,
		}); err != nil {
			t.Fatalf("AddMember attempt %d: %v", i+1, err)
		}
	}

	memberships, _ := members.ListByOrganization(context.Background(), organization.ID)
	if len(memberships) != 2 {
		t.Errorf("expected owner plus one member, got %d memberships", len(memberships))
	}
}

func TestUpdateMemberRole(t *testing.T) {
	service, _, members, users := newOrganizationFixture()
	users.users["user-2"] = domain.User{ID: "user-2", IsActive: true}

	organization, err := service.CreateOrganization(context.Background(), CreateOrganizationInput{
		Name:    "Club",
		OwnerID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	member, err := service.AddMember(context.Background(), organization.ID, AddMemberInput{
		UserID: "user-2",
		Role:   domain.OrgRoleMember,
	})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if err := service.UpdateMemberRole(context.Background(), member.ID, domain.OrgRoleAdmin); err != nil {
		t.Fatalf("UpdateMemberRole: %v", err)
	}
	if got := members.members[member.ID].Role; got != domain.OrgRoleAdmin {
		t.Errorf("member role = %q, want ADMIN", got)
	}
}

func TestRemoveMemberNotFound(t *testing.T) {
	service, _, _, _ := newOrganizationFixture()

	if err := service.RemoveMember(context.Background(), "missing"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Club Andino":          "club-andino",
		"  Vuelta  2026!  ":    "vuelta-2026",
		"---":                  "",
		"Ya-Slugged":           "ya-slugged",
		"Ruta del Café (Este)": "ruta-del-caf-este",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
