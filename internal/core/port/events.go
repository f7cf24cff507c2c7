package port

import (
	"context"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishRolesAssigned(ctx context.Context, event domain.RolesAssignedEvent) error
	PublishRolesRevoked(ctx context.Context, event domain.RolesRevokedEvent) error
	PublishEntityMutated(ctx context.Context, event domain.EntityMutatedEvent) error
	PublishRaceStatusChanged(ctx context.Context, event domain.RaceStatusChangedEvent) error
	PublishTimingRecorded(ctx context.Context, event domain.TimingRecordedEvent) error
	PublishPaymentCompleted(ctx context.Context, event domain.PaymentCompletedEvent) error
}
