package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/config"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	ActorID   string           `json:"actor_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, actorID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if requestID, ok := ctx.Value(logger.RequestIDKey{}).(string); ok && requestID != "" {
		metadata["request_id"] = requestID
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		ActorID:   actorID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes byke.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Email        string         `json:"email"`
		FullName     string         `json:"full_name"`
		SystemRole   string         `json:"system_role"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		FullName:     event.FullName,
		SystemRole:   event.SystemRole,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishRolesAssigned publishes byke.user.roles.assigned events.
func (p *EventPublisher) PublishRolesAssigned(ctx context.Context, event domain.RolesAssignedEvent) error {
	roles := make([]map[string]string, 0, len(event.RolesAdded))
	for _, change := range event.RolesAdded {
		roles = append(roles, map[string]string{
			"role_id":   change.RoleID,
			"role_name": change.RoleName,
		})
	}

	payload := struct {
		UserID     string              `json:"user_id"`
		RolesAdded []map[string]string `json:"roles_added"`
		AssignedBy string              `json:"assigned_by"`
		AssignedAt time.Time           `json:"assigned_at"`
		Metadata   map[string]any      `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		RolesAdded: roles,
		AssignedBy: event.AssignedBy,
		AssignedAt: event.AssignedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.roles.assigned", event.AssignedBy, event.AssignedAt, payload)
}

// PublishRolesRevoked publishes byke.user.roles.revoked events.
func (p *EventPublisher) PublishRolesRevoked(ctx context.Context, event domain.RolesRevokedEvent) error {
	roles := make([]map[string]string, 0, len(event.RolesRemoved))
	for _, change := range event.RolesRemoved {
		roles = append(roles, map[string]string{
			"role_id":   change.RoleID,
			"role_name": change.RoleName,
		})
	}

	payload := struct {
		UserID       string              `json:"user_id"`
		RolesRemoved []map[string]string `json:"roles_removed"`
		RevokedBy    string              `json:"revoked_by"`
		RevokedAt    time.Time           `json:"revoked_at"`
		Metadata     map[string]any      `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		RolesRemoved: roles,
		RevokedBy:    event.RevokedBy,
		RevokedAt:    event.RevokedAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.roles.revoked", event.RevokedBy, event.RevokedAt, payload)
}

// PublishEntityMutated publishes byke.entity.mutated events.
func (p *EventPublisher) PublishEntityMutated(ctx context.Context, event domain.EntityMutatedEvent) error {
	payload := struct {
		Entity    string         `json:"entity"`
		EntityID  string         `json:"entity_id"`
		Action    string         `json:"action"`
		ActorID   *string        `json:"actor_id,omitempty"`
		MutatedAt time.Time      `json:"mutated_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		Action:    event.Action,
		ActorID:   event.ActorID,
		MutatedAt: event.MutatedAt.UTC(),
		Metadata:  event.Metadata,
	}

	actorID := ""
	if event.ActorID != nil {
		actorID = *event.ActorID
	}

	return p.publish(ctx, event.EventID, "entity.mutated", actorID, event.MutatedAt, payload)
}

// PublishRaceStatusChanged publishes byke.race.status.changed events.
func (p *EventPublisher) PublishRaceStatusChanged(ctx context.Context, event domain.RaceStatusChangedEvent) error {
	payload := struct {
		RaceID         string         `json:"race_id"`
		OrganizationID string         `json:"organization_id"`
		PreviousStatus string         `json:"previous_status"`
		NewStatus      string         `json:"new_status"`
		ChangedBy      string         `json:"changed_by"`
		ChangedAt      time.Time      `json:"changed_at"`
		Metadata       map[string]any `json:"metadata,omitempty"`
	}{
		RaceID:         event.RaceID,
		OrganizationID: event.OrganizationID,
		PreviousStatus: event.PreviousStatus,
		NewStatus:      event.NewStatus,
		ChangedBy:      event.ChangedBy,
		ChangedAt:      event.ChangedAt.UTC(),
		Metadata:       event.Metadata,
	}

	return p.publish(ctx, event.EventID, "race.status.changed", event.ChangedBy, event.ChangedAt, payload)
}

// PublishTimingRecorded publishes byke.race.timing.recorded events.
func (p *EventPublisher) PublishTimingRecorded(ctx context.Context, event domain.TimingRecordedEvent) error {
	payload := struct {
		TimingID      string         `json:"timing_id"`
		RaceID        string         `json:"race_id"`
		ParticipantID string         `json:"participant_id"`
		CheckpointID  string         `json:"checkpoint_id"`
		RecordedAt    time.Time      `json:"recorded_at"`
		Metadata      map[string]any `json:"metadata,omitempty"`
	}{
		TimingID:      event.TimingID,
		RaceID:        event.RaceID,
		ParticipantID: event.ParticipantID,
		CheckpointID:  event.CheckpointID,
		RecordedAt:    event.RecordedAt.UTC(),
		Metadata:      event.Metadata,
	}

	return p.publish(ctx, event.EventID, "race.timing.recorded", "", event.RecordedAt, payload)
}

// PublishPaymentCompleted publishes byke.payment.completed events.
func (p *EventPublisher) PublishPaymentCompleted(ctx context.Context, event domain.PaymentCompletedEvent) error {
	payload := struct {
		PaymentID     string         `json:"payment_id"`
		UserID        string         `json:"user_id"`
		RaceID        string         `json:"race_id"`
		Amount        float64        `json:"amount"`
		Currency      string         `json:"currency"`
		TransactionID *string        `json:"transaction_id,omitempty"`
		CompletedAt   time.Time      `json:"completed_at"`
		Metadata      map[string]any `json:"metadata,omitempty"`
	}{
		PaymentID:     event.PaymentID,
		UserID:        event.UserID,
		RaceID:        event.RaceID,
		Amount:        event.Amount,
		Currency:      event.Currency,
		TransactionID: event.TransactionID,
		CompletedAt:   event.CompletedAt.UTC(),
		Metadata:      event.Metadata,
	}

	return p.publish(ctx, event.EventID, "payment.completed", event.UserID, event.CompletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
