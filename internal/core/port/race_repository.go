package port

import (
	"context"
	"time"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
)

// TrackRepository persists courses and their geometry.
type TrackRepository interface {
	Create(ctx context.Context, track domain.Track) error
	GetByID(ctx context.Context, id string) (*domain.Track, error)
	List(ctx context.Context) ([]domain.Track, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Track, error)
	Update(ctx context.Context, track domain.Track) error
	SoftDelete(ctx context.Context, id string) error
}

// CheckpointRepository persists ordered timing points along a track.
type CheckpointRepository interface {
	Create(ctx context.Context, checkpoint domain.Checkpoint) error
	GetByID(ctx context.Context, id string) (*domain.Checkpoint, error)
	ListByTrack(ctx context.Context, trackID string) ([]domain.Checkpoint, error)
	Update(ctx context.Context, checkpoint domain.Checkpoint) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository persists participant categories.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) error
	SoftDelete(ctx context.Context, id string) error
}

// RaceFilter narrows race listings.
type RaceFilter struct {
	OrganizationID string
	Status         *domain.RaceStatus
	From           *time.Time
	To             *time.Time
	Limit          int
	Offset         int
}

// RaceRepository persists races and their category links.
type RaceRepository interface {
	Create(ctx context.Context, race domain.Race) error
	GetByID(ctx context.Context, id string) (*domain.Race, error)
	List(ctx context.Context, filter RaceFilter) ([]domain.Race, error)
	Count(ctx context.Context, filter RaceFilter) (int, error)
	Update(ctx context.Context, race domain.Race) error
	UpdateStatus(ctx context.Context, id string, status domain.RaceStatus) error
	SoftDelete(ctx context.Context, id string) error
	// AttachCategories links categories to the race, skipping links that
	// already exist, and reports how many were added.
	AttachCategories(ctx context.Context, raceID string, categoryIDs []string) (int, error)
	DetachCategory(ctx context.Context, raceID, categoryID string) error
	ListCategories(ctx context.Context, raceID string) ([]domain.Category, error)
}

// ParticipantRepository persists race registrations.
type ParticipantRepository interface {
	Create(ctx context.Context, participant domain.RaceParticipant) error
	GetByID(ctx context.Context, id string) (*domain.RaceParticipant, error)
	GetByRaceAndProfile(ctx context.Context, raceID, profileID string) (*domain.RaceParticipant, error)
	ListByRace(ctx context.Context, raceID string) ([]domain.RaceParticipant, error)
	ListByProfile(ctx context.Context, profileID string) ([]domain.RaceParticipant, error)
	CountByRace(ctx context.Context, raceID string) (int, error)
	// NextBibNumber returns the next free bib for the race, starting at 1.
	NextBibNumber(ctx context.Context, raceID string) (int, error)
	Update(ctx context.Context, participant domain.RaceParticipant) error
	Delete(ctx context.Context, id string) error
}

// TimingRepository persists checkpoint passes.
type TimingRepository interface {
	Create(ctx context.Context, timing domain.RaceTiming) error
	GetByID(ctx context.Context, id string) (*domain.RaceTiming, error)
	ListByRace(ctx context.Context, raceID string) ([]domain.RaceTiming, error)
	ListByParticipant(ctx context.Context, participantID string) ([]domain.RaceTiming, error)
	Delete(ctx context.Context, id string) error
}
