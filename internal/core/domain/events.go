package domain

import "time"

// UserRegisteredEvent represents the payload for byke.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	FullName     string
	SystemRole   string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// RoleChange captures an individual role assignment within an event.
type RoleChange struct {
	RoleID   string
	RoleName string
}

// RolesAssignedEvent represents the payload for byke.user.roles.assigned messages.
type RolesAssignedEvent struct {
	EventID    string
	UserID     string
	RolesAdded []RoleChange
	AssignedBy string
	AssignedAt time.Time
	Metadata   map[string]any
}

// RolesRevokedEvent represents the payload for byke.user.roles.revoked messages.
type RolesRevokedEvent struct {
	EventID      string
	UserID       string
	RolesRemoved []RoleChange
	RevokedBy    string
	RevokedAt    time.Time
	Metadata     map[string]any
}

// EntityMutatedEvent represents the payload for byke.entity.mutated messages.
// It mirrors the audit trail for downstream consumers.
type EntityMutatedEvent struct {
	EventID   string
	Entity    string
	EntityID  string
	Action    string
	ActorID   *string
	MutatedAt time.Time
	Metadata  map[string]any
}

// RaceStatusChangedEvent represents the payload for byke.race.status.changed messages.
type RaceStatusChangedEvent struct {
	EventID        string
	RaceID         string
	OrganizationID string
	PreviousStatus string
	NewStatus      string
	ChangedBy      string
	ChangedAt      time.Time
	Metadata       map[string]any
}

// TimingRecordedEvent represents the payload for byke.race.timing.recorded messages.
type TimingRecordedEvent struct {
	EventID       string
	TimingID      string
	RaceID        string
	ParticipantID string
	CheckpointID  string
	RecordedAt    time.Time
	Metadata      map[string]any
}

// PaymentCompletedEvent represents the payload for byke.payment.completed messages.
type PaymentCompletedEvent struct {
	EventID       string
	PaymentID     string
	UserID        string
	RaceID        string
	Amount        float64
	Currency      string
	TransactionID *string
	CompletedAt   time.Time
	Metadata      map[string]any
}
