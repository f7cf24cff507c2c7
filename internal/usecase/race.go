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
	// ErrRaceNotFound is returned when the referenced race does not exist.
	ErrRaceNotFound = errors.New("race not found")
	// ErrInvalidRaceType indicates a race type outside the allowed set.
	ErrInvalidRaceType = errors.New("invalid race type")
	// ErrInvalidTransition indicates a race status change outside the lifecycle.
	ErrInvalidTransition = errors.New("invalid race status transition")
	// ErrTrackMismatch indicates the track does not belong to the race's organization.
	ErrTrackMismatch = errors.New("track belongs to another organization")
)

// Allowed race lifecycle transitions. CANCELADA is reachable from every
// non-final state; FINALIZADA and CANCELADA are terminal.
var raceTransitions = map[domain.RaceStatus][]domain.RaceStatus{
	domain.RaceStatusDraft:              {domain.RaceStatusScheduled, domain.RaceStatusCancelled},
	domain.RaceStatusScheduled:          {domain.RaceStatusRegistrationClosed, domain.RaceStatusCancelled},
	domain.RaceStatusRegistrationClosed: {domain.RaceStatusInProgress, domain.RaceStatusCancelled},
	domain.RaceStatusInProgress:         {domain.RaceStatusFinished, domain.RaceStatusCancelled},
	domain.RaceStatusFinished:           {},
	domain.RaceStatusCancelled:          {},
}

// CreateRaceInput captures the payload for creating a race.
type CreateRaceInput struct {
	Name           string
	Date           time.Time
	LocationName   *string
	Type           domain.RaceType
	Laps           *int
	Price          *float64
	OrganizationID string
	TrackID        string
	CreatorID      string
	CategoryIDs    []string
}

// UpdateRaceInput captures the mutable fields of a race.
type UpdateRaceInput struct {
	Name         *string
	Date         *time.Time
	LocationName *string
	Laps         *int
	Price        *float64
}

// RaceService manages the race lifecycle.
type RaceService struct {
	races         port.RaceRepository
	tracks        port.TrackRepository
	organizations port.OrganizationRepository
	events        port.EventPublisher
}

// NewRaceService constructs a RaceService.
func NewRaceService(
	races port.RaceRepository,
	tracks port.TrackRepository,
	organizations port.OrganizationRepository,
	events port.EventPublisher,
) *RaceService {
	return &RaceService{races: races, tracks: tracks, organizations: organizations, events: events}
}

// CreateRace provisions a draft race on an organization's track.
func (s *RaceService) CreateRace(ctx context.Context, input CreateRaceInput) (*domain.Race, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("race name is required")
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("race date is required")
	}
	if input.CreatorID == "" {
		return nil, fmt.Errorf("creator id is required")
	}
	if !validRaceType(input.Type) {
		return nil, ErrInvalidRaceType
	}
	if input.Type == domain.RaceTypeCircuit && (input.Laps == nil || *input.Laps <= 0) {
		return nil, fmt.Errorf("circuit races require a positive lap count")
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}

	if _, err := s.organizations.GetByID(ctx, input.OrganizationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("lookup organization: %w", err)
	}

	track, err := s.tracks.GetByID(ctx, input.TrackID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("lookup track: %w", err)
	}
	if track.OrganizationID != input.OrganizationID {
		return nil, ErrTrackMismatch
	}

	now := time.Now().UTC()
	race := domain.Race{
		ID:             uuid.NewString(),
		Name:           name,
		Date:           input.Date.UTC(),
		LocationName:   input.LocationName,
		Status:         domain.RaceStatusDraft,
		Type:           input.Type,
		Laps:           input.Laps,
		Price:          input.Price,
		OrganizationID: input.OrganizationID,
		TrackID:        input.TrackID,
		CreatorID:      input.CreatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.races.Create(ctx, race); err != nil {
		return nil, fmt.Errorf("create race: %w", err)
	}

	if len(input.CategoryIDs) > 0 {
		if _, err := s.races.AttachCategories(ctx, race.ID, input.CategoryIDs); err != nil {
			return nil, fmt.Errorf("attach categories: %w", err)
		}
	}

	return &race, nil
}

// GetRace returns a race with its category links.
func (s *RaceService) GetRace(ctx context.Context, id string) (*domain.Race, error) {
	race, err := s.races.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, fmt.Errorf("lookup race: %w", err)
	}

	categories, err := s.races.ListCategories(ctx, race.ID)
	if err != nil {
		return nil, fmt.Errorf("list race categories: %w", err)
	}
	race.Categories = categories

	return race, nil
}

// ListRaces returns a page of races with the total count.
func (s *RaceService) ListRaces(ctx context.Context, filter port.RaceFilter) ([]domain.Race, int, error) {
	races, err := s.races.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list races: %w", err)
	}
	total, err := s.races.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count races: %w", err)
	}
	return races, total, nil
}

// UpdateRace applies partial changes to a race. Finished and cancelled races
// are frozen.
func (s *RaceService) UpdateRace(ctx context.Context, id string, input UpdateRaceInput) (*domain.Race, error) {
	race, err := s.GetRace(ctx, id)
	if err != nil {
		return nil, err
	}

	if race.Status == domain.RaceStatusFinished || race.Status == domain.RaceStatusCancelled {
		return nil, ErrInvalidTransition
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("race name is required")
		}
		race.Name = name
	}
	if input.Date != nil {
		race.Date = input.Date.UTC()
	}
	if input.LocationName != nil {
		race.LocationName = input.LocationName
	}
	if input.Laps != nil {
		if *input.Laps <= 0 {
			return nil, fmt.Errorf("lap count must be positive")
		}
		race.Laps = input.Laps
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("price must not be negative")
		}
		race.Price = input.Price
	}

	race.UpdatedAt = time.Now().UTC()
	if err := s.races.Update(ctx, *race); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, fmt.Errorf("update race: %w", err)
	}

	return race, nil
}

// ChangeStatus advances a race through its lifecycle and publishes the
// transition.
func (s *RaceService) ChangeStatus(ctx context.Context, id string, next domain.RaceStatus, actorID string) (*domain.Race, error) {
	race, err := s.GetRace(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(race.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, race.Status, next)
	}

	previous := race.Status
	if err := s.races.UpdateStatus(ctx, race.ID, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, fmt.Errorf("update race status: %w", err)
	}
	race.Status = next

	if s.events != nil {
		event := domain.RaceStatusChangedEvent{
			EventID:        uuid.NewString(),
			RaceID:         race.ID,
			OrganizationID: race.OrganizationID,
			PreviousStatus: string(previous),
			NewStatus:      string(next),
			ChangedBy:      actorID,
			ChangedAt:      time.Now().UTC(),
		}
		if err := s.events.PublishRaceStatusChanged(ctx, event); err != nil {
			return nil, fmt.Errorf("publish race status event: %w", err)
		}
	}

	return race, nil
}

// DeleteRace soft deletes a race that never left the draft or cancelled state.
func (s *RaceService) DeleteRace(ctx context.Context, id string) error {
	race, err := s.GetRace(ctx, id)
	if err != nil {
		return err
	}

	if race.Status != domain.RaceStatusDraft && race.Status != domain.RaceStatusCancelled {
		return ErrInvalidTransition
	}

	if err := s.races.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRaceNotFound
		}
		return fmt.Errorf("delete race: %w", err)
	}
	return nil
}

// AttachCategories links categories to a race, skipping existing links.
func (s *RaceService) AttachCategories(ctx context.Context, raceID string, categoryIDs []string) (int, error) {
	if _, err := s.GetRace(ctx, raceID); err != nil {
		return 0, err
	}

	attached, err := s.races.AttachCategories(ctx, raceID, categoryIDs)
	if err != nil {
		return 0, fmt.Errorf("attach categories: %w", err)
	}
	return attached, nil
}

// DetachCategory unlinks a category from a race.
func (s *RaceService) DetachCategory(ctx context.Context, raceID, categoryID string) error {
	if err := s.races.DetachCategory(ctx, raceID, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("detach category: %w", err)
	}
	return nil
}

func validRaceType(raceType domain.RaceType) bool {
	switch raceType {
	case domain.RaceTypeCircuit, domain.RaceTypeLinear, domain.RaceTypeTimeTrial:
		return true
	default:
		return false
	}
}

func transitionAllowed(current, next domain.RaceStatus) bool {
	for _, allowed := range raceTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}
