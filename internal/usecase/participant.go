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
	// ErrParticipantNotFound is returned when the referenced registration does not exist.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrAlreadyRegistered indicates the profile is already registered for the race.
	ErrAlreadyRegistered = errors.New("profile already registered for race")
	// ErrRegistrationClosed indicates the race is not accepting registrations.
	ErrRegistrationClosed = errors.New("race registration is closed")
)

// RegisterParticipantInput captures a race registration.
type RegisterParticipantInput struct {
	ProfileID          string
	BicycleID          *string
	CategoryAssignedID *string
}

// UpdateParticipantInput captures the mutable fields of a registration.
type UpdateParticipantInput struct {
	BicycleID          *string
	CategoryAssignedID *string
	Status             *string
	FinalTimeMs        *int64
	Rank               *int
}

// ParticipantService manages race registrations.
type ParticipantService struct {
	participants port.ParticipantRepository
	races        port.RaceRepository
	profiles     port.CyclistProfileRepository
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(
	participants port.ParticipantRepository,
	races port.RaceRepository,
	profiles port.CyclistProfileRepository,
) *ParticipantService {
	return &ParticipantService{participants: participants, races: races, profiles: profiles}
}

// Register enrolls a cyclist profile into a scheduled race, assigning the next
// free bib number. Registering the same profile twice is rejected.
func (s *ParticipantService) Register(ctx context.Context, raceID string, input RegisterParticipantInput) (*domain.RaceParticipant, error) {
	profileID := strings.TrimSpace(input.ProfileID)
	if profileID == "" {
		return nil, fmt.Errorf("profile id is required")
	}

	race, err := s.races.GetByID(ctx, raceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, fmt.Errorf("lookup race: %w", err)
	}

	if race.Status != domain.RaceStatusScheduled {
		return nil, ErrRegistrationClosed
	}

	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	if existing, err := s.participants.GetByRaceAndProfile(ctx, raceID, profileID); err == nil && existing != nil {
		return nil, ErrAlreadyRegistered
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup registration: %w", err)
	}

	bib, err := s.participants.NextBibNumber(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("allocate bib number: %w", err)
	}

	now := time.Now().UTC()
	participant := domain.RaceParticipant{
		ID:                 uuid.NewString(),
		RaceID:             raceID,
		ProfileID:          profileID,
		BicycleID:          input.BicycleID,
		CategoryAssignedID: input.CategoryAssignedID,
		BibNumber:          bib,
		HasPaid:            false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}

	return &participant, nil
}

// GetParticipant returns a registration by identifier.
func (s *ParticipantService) GetParticipant(ctx context.Context, id string) (*domain.RaceParticipant, error) {
	participant, err := s.participants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("lookup participant: %w", err)
	}
	return participant, nil
}

// ListByRace returns a race's registrations in bib order.
func (s *ParticipantService) ListByRace(ctx context.Context, raceID string) ([]domain.RaceParticipant, error) {
	participants, err := s.participants.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// ListByProfile returns every race a profile is registered for.
func (s *ParticipantService) ListByProfile(ctx context.Context, profileID string) ([]domain.RaceParticipant, error) {
	participants, err := s.participants.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list profile registrations: %w", err)
	}
	return participants, nil
}

// CountByRace returns the number of registrations for a race.
func (s *ParticipantService) CountByRace(ctx context.Context, raceID string) (int, error) {
	count, err := s.participants.CountByRace(ctx, raceID)
	if err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}

// UpdateParticipant applies partial changes to a registration.
func (s *ParticipantService) UpdateParticipant(ctx context.Context, id string, input UpdateParticipantInput) (*domain.RaceParticipant, error) {
	participant, err := s.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.BicycleID != nil {
		participant.BicycleID = input.BicycleID
	}
	if input.CategoryAssignedID != nil {
		participant.CategoryAssignedID = input.CategoryAssignedID
	}
	if input.Status != nil {
		participant.Status = input.Status
	}
	if input.FinalTimeMs != nil {
		if *input.FinalTimeMs < 0 {
			return nil, fmt.Errorf("final time must not be negative")
		}
		participant.FinalTimeMs = input.FinalTimeMs
	}
	if input.Rank != nil {
		if *input.Rank <= 0 {
			return nil, fmt.Errorf("rank must be positive")
		}
		participant.Rank = input.Rank
	}

	participant.UpdatedAt = time.Now().UTC()
	if err := s.participants.Update(ctx, *participant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}

	return participant, nil
}

// Withdraw removes a registration before the race starts.
func (s *ParticipantService) Withdraw(ctx context.Context, id string) error {
	participant, err := s.GetParticipant(ctx, id)
	if err != nil {
		return err
	}

	race, err := s.races.GetByID(ctx, participant.RaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRaceNotFound
		}
		return fmt.Errorf("lookup race: %w", err)
	}

	switch race.Status {
	case domain.RaceStatusInProgress, domain.RaceStatusFinished:
		return ErrRegistrationClosed
	}

	if err := s.participants.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("delete participant: %w", err)
	}

	return nil
}
