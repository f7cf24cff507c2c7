package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, actorID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("actor_id", actorID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs byke.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"full_name":     event.FullName,
		"system_role":   event.SystemRole,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishRolesAssigned logs byke.user.roles.assigned events.
func (p *StubPublisher) PublishRolesAssigned(_ context.Context, event domain.RolesAssignedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"roles_added": event.RolesAdded,
		"assigned_by": event.AssignedBy,
		"assigned_at": event.AssignedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("user.roles.assigned", event.AssignedBy, event.AssignedAt, payload)
	return nil
}

// PublishRolesRevoked logs byke.user.roles.revoked events.
func (p *StubPublisher) PublishRolesRevoked(_ context.Context, event domain.RolesRevokedEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"roles_removed": event.RolesRemoved,
		"revoked_by":    event.RevokedBy,
		"revoked_at":    event.RevokedAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("user.roles.revoked", event.RevokedBy, event.RevokedAt, payload)
	return nil
}

// PublishEntityMutated logs byke.entity.mutated events.
func (p *StubPublisher) PublishEntityMutated(_ context.Context, event domain.EntityMutatedEvent) error {
	payload := map[string]any{
		"entity":     event.Entity,
		"entity_id":  event.EntityID,
		"action":     event.Action,
		"actor_id":   event.ActorID,
		"mutated_at": event.MutatedAt,
		"metadata":   event.Metadata,
	}

	actorID := ""
	if event.ActorID != nil {
		actorID = *event.ActorID
	}

	p.logEvent("entity.mutated", actorID, event.MutatedAt, payload)
	return nil
}

// PublishRaceStatusChanged logs byke.race.status.changed events.
func (p *StubPublisher) PublishRaceStatusChanged(_ context.Context, event domain.RaceStatusChangedEvent) error {
	payload := map[string]any{
		"race_id":         event.RaceID,
		"organization_id": event.OrganizationID,
		"previous_status": event.PreviousStatus,
		"new_status":      event.NewStatus,
		"changed_by":      event.ChangedBy,
		"changed_at":      event.ChangedAt,
		"metadata":        event.Metadata,
	}
	p.logEvent("race.status.changed", event.ChangedBy, event.ChangedAt, payload)
	return nil
}

// PublishTimingRecorded logs byke.race.timing.recorded events.
func (p *StubPublisher) PublishTimingRecorded(_ context.Context, event domain.TimingRecordedEvent) error {
	payload := map[string]any{
		"timing_id":      event.TimingID,
		"race_id":        event.RaceID,
		"participant_id": event.ParticipantID,
		"checkpoint_id":  event.CheckpointID,
		"recorded_at":    event.RecordedAt,
		"metadata":       event.Metadata,
	}
	p.logEvent("race.timing.recorded", "", event.RecordedAt, payload)
	return nil
}

// PublishPaymentCompleted logs byke.payment.completed events.
func (p *StubPublisher) PublishPaymentCompleted(_ context.Context, event domain.PaymentCompletedEvent) error {
	payload := map[string]any{
		"payment_id":     event.PaymentID,
		"user_id":        event.UserID,
		"race_id":        event.RaceID,
		"amount":         event.Amount,
		"currency":       event.Currency,
		"transaction_id": event.TransactionID,
		"completed_at":   event.CompletedAt,
		"metadata":       event.Metadata,
	}
	p.logEvent("payment.completed", event.UserID, event.CompletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
