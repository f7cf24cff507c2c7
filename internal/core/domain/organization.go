package domain

import "time"

// OrgRole enumerates membership roles within an organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "OWNER"
	OrgRoleAdmin  OrgRole = "ADMIN"
	OrgRoleStaff  OrgRole = "STAFF"
	OrgRoleMember OrgRole = "MEMBER"
)

// Organization represents a race-organizing entity.
type Organization struct {
	ID          string
	Name        string
	Slug        string
	Description *string
	LogoURL     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// OrganizationMember links a user to an organization with a membership role.
type OrganizationMember struct {
	ID             string
	UserID         string
	OrganizationID string
	Position       *string
	Role           OrgRole
	IsActive       bool
	JoinedAt       time.Time
	User           *User
}
