package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

var (
	// ErrPaymentNotFound is returned when the referenced payment does not exist.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentFinalized indicates the payment already reached a terminal state.
	ErrPaymentFinalized = errors.New("payment already finalized")
)

const defaultCurrency = "USD"

// CreatePaymentInput captures a pending registration fee.
type CreatePaymentInput struct {
	UserID   string
	RaceID   string
	Amount   float64
	Currency string
}

// PaymentService manages registration fees.
type PaymentService struct {
	payments     port.PaymentRepository
	races        port.RaceRepository
	profiles     port.CyclistProfileRepository
	participants port.ParticipantRepository
	events       port.EventPublisher
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(
	payments port.PaymentRepository,
	races port.RaceRepository,
	profiles port.CyclistProfileRepository,
	participants port.ParticipantRepository,
	events port.EventPublisher,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		races:        races,
		profiles:     profiles,
		participants: participants,
		events:       events,
	}
}

// CreatePayment opens a pending payment for a race registration fee.
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*domain.Payment, error) {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	if _, err := s.races.GetByID(ctx, input.RaceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, fmt.Errorf("lookup race: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		ID:        uuid.NewString(),
		UserID:    userID,
		RaceID:    input.RaceID,
		Amount:    input.Amount,
		Currency:  currency,
		Status:    domain.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	return &payment, nil
}

// GetPayment returns a payment by identifier.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("lookup payment: %w", err)
	}
	return payment, nil
}

// ListByUser returns a user's payments.
func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user payments: %w", err)
	}
	return payments, nil
}

// ListByRace returns the payments collected for a race.
func (s *PaymentService) ListByRace(ctx context.Context, raceID string) ([]domain.Payment, error) {
	payments, err := s.payments.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("list race payments: %w", err)
	}
	return payments, nil
}

// CompletePayment settles a pending payment, flips the matching registration
// to paid, and publishes the completion event.
func (s *PaymentService) CompletePayment(ctx context.Context, id string, transactionID *string) (*domain.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentStatusPending {
		return nil, ErrPaymentFinalized
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusCompleted, transactionID); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	payment.Status = domain.PaymentStatusCompleted
	payment.TransactionID = transactionID

	if err := s.markRegistrationPaid(ctx, payment.UserID, payment.RaceID); err != nil {
		return nil, err
	}

	if s.events != nil {
		event := domain.PaymentCompletedEvent{
			EventID:       uuid.NewString(),
			PaymentID:     payment.ID,
			UserID:        payment.UserID,
			RaceID:        payment.RaceID,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			TransactionID: transactionID,
			CompletedAt:   time.Now().UTC(),
		}
		if err := s.events.PublishPaymentCompleted(ctx, event); err != nil {
			return nil, fmt.Errorf("publish payment event: %w", err)
		}
	}

	return payment, nil
}

// FailPayment marks a pending payment as failed.
func (s *PaymentService) FailPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentStatusPending {
		return nil, ErrPaymentFinalized
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, domain.PaymentStatusFailed, nil); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	payment.Status = domain.PaymentStatusFailed

	return payment, nil
}

// markRegistrationPaid flips HasPaid on the payer's registration, if there is
// one. A payment without a registration is still valid (paid before signup).
func (s *PaymentService) markRegistrationPaid(ctx context.Context, userID, raceID string) error {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup payer profile: %w", err)
	}

	participant, err := s.participants.GetByRaceAndProfile(ctx, raceID, profile.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup registration: %w", err)
	}

	participant.HasPaid = true
	participant.UpdatedAt = time.Now().UTC()
	if err := s.participants.Update(ctx, *participant); err != nil {
		return fmt.Errorf("mark registration paid: %w", err)
	}

	return nil
}
