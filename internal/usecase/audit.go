package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
)

// RecordAuditInput captures a single audit trail entry.
type RecordAuditInput struct {
	ActorID   *string
	Entity    string
	EntityID  string
	Action    domain.AuditAction
	OldData   any
	NewData   any
	IPAddress string
	UserAgent *string
}

// AuditService persists the audit trail and mirrors entries onto the event bus.
type AuditService struct {
	logs   port.AuditLogRepository
	events port.EventPublisher
}

// NewAuditService constructs an AuditService.
func NewAuditService(logs port.AuditLogRepository, events port.EventPublisher) *AuditService {
	return &AuditService{logs: logs, events: events}
}

// Record stores an audit entry and publishes the matching mutation event.
func (s *AuditService) Record(ctx context.Context, input RecordAuditInput) error {
	if input.Entity == "" {
		return fmt.Errorf("entity is required")
	}
	if input.Action == "" {
		return fmt.Errorf("action is required")
	}

	oldData, err := marshalSnapshot(input.OldData)
	if err != nil {
		return fmt.Errorf("marshal old data: %w", err)
	}
	newData, err := marshalSnapshot(input.NewData)
	if err != nil {
		return fmt.Errorf("marshal new data: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.AuditLog{
		ID:        uuid.NewString(),
		UserID:    input.ActorID,
		Entity:    input.Entity,
		EntityID:  input.EntityID,
		Action:    input.Action,
		OldData:   oldData,
		NewData:   newData,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		CreatedAt: now,
	}

	if err := s.logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	if s.events != nil {
		event := domain.EntityMutatedEvent{
			EventID:   uuid.NewString(),
			Entity:    input.Entity,
			EntityID:  input.EntityID,
			Action:    string(input.Action),
			ActorID:   input.ActorID,
			MutatedAt: now,
		}
		if err := s.events.PublishEntityMutated(ctx, event); err != nil {
			return fmt.Errorf("publish mutation event: %w", err)
		}
	}

	return nil
}

// List returns a page of audit entries with the total count.
func (s *AuditService) List(ctx context.Context, filter port.AuditFilter) ([]domain.AuditLog, int, error) {
	entries, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	total, err := s.logs.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	return entries, total, nil
}

func marshalSnapshot(value any) (json.RawMessage, error) {
	if value == nil {
		return nil, nil
	}
	if raw, ok := value.(json.RawMessage); ok {
		return raw, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}
