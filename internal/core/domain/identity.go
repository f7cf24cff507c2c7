package domain

import "time"

// SystemRole classifies an account for frontend routing. It is distinct
// from the RBAC role assignments that drive authorization.
type SystemRole string

const (
	SystemRoleAdmin     SystemRole = "ADMIN"
	SystemRoleOrganizer SystemRole = "ORGANIZER"
	SystemRoleCyclist   SystemRole = "CYCLIST"
)

// User mirrors the persisted representation in the users table. Roles is
// populated only by the eager-loading queries used for authorization.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	AvatarURL    *string
	IsActive     bool
	SystemRole   SystemRole
	APIToken     *string
	Roles        []UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// CyclistProfile holds rider-specific data attached to a user account.
type CyclistProfile struct {
	ID               string
	UserID           string
	BirthDate        *time.Time
	BloodType        *string
	EmergencyContact *string
	EmergencyPhone   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
