package domain

import "time"

// Role defines a named set of permissions.
type Role struct {
	ID          string
	Name        string
	Description *string
	Permissions []RolePermission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission defines a capability string in the form resource:action:verb.
type Permission struct {
	ID          string
	Action      string
	Description *string
	CreatedAt   time.Time
}

// RolePermission links a role with a permission. Permission is populated
// by the eager-loading queries.
type RolePermission struct {
	RoleID       string
	PermissionID string
	AssignedAt   time.Time
	Permission   *Permission
}

// UserRole assigns a role to a user. Role is populated by the
// eager-loading queries.
type UserRole struct {
	UserID     string
	RoleID     string
	AssignedAt time.Time
	Role       *Role
}
