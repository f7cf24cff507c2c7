package domain

import (
	"encoding/json"
	"time"
)

// AuditAction enumerates auditable operations.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionLogin      AuditAction = "LOGIN"
	AuditActionExportData AuditAction = "EXPORT_DATA"
)

// AuditLog is an immutable record of a mutation or security-relevant event.
type AuditLog struct {
	ID        string
	UserID    *string
	Action    AuditAction
	Entity    string
	EntityID  string
	OldData   json.RawMessage
	NewData   json.RawMessage
	IPAddress string
	UserAgent *string
	CreatedAt time.Time
}
