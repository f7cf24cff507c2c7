package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

var (
	// ErrTimingNotFound is returned when the referenced timing record does not exist.
	ErrTimingNotFound = errors.New("timing record not found")
	// ErrCheckpointMismatch indicates the checkpoint is not on the race's track.
	ErrCheckpointMismatch = errors.New("checkpoint does not belong to race track")
	// ErrRaceNotRunning indicates timing capture outside the in-progress window.
	ErrRaceNotRunning = errors.New("race is not in progress")
	// ErrDuplicateTiming indicates the participant was already clocked at the checkpoint.
	ErrDuplicateTiming = errors.New("timing already recorded for checkpoint")
)

// RecordTimingInput captures a checkpoint pass.
type RecordTimingInput struct {
	ParticipantID string
	CheckpointID  string
	RecordedAt    time.Time
}

// TimingService captures checkpoint passes during races.
type TimingService struct {
	timings      port.TimingRepository
	races        port.RaceRepository
	participants port.ParticipantRepository
	checkpoints  port.CheckpointRepository
	events       port.EventPublisher
}

// NewTimingService constructs a TimingService.
func NewTimingService(
	timings port.TimingRepository,
	races port.RaceRepository,
	participants port.ParticipantRepository,
	checkpoints port.CheckpointRepository,
	events port.EventPublisher,
) *TimingService {
	return &TimingService{
		timings:      timings,
		races:        races,
		participants: participants,
		checkpoints:  checkpoints,
		events:       events,
	}
}

// Record stores a checkpoint pass for a participant of an in-progress race.
// The checkpoint must sit on the track the race runs on.
func (s *TimingService) Record(ctx context.Context, raceID string, input RecordTimingInput) (*domain.RaceTiming, error) {
	race, err := s.races.GetByID(ctx, raceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRaceNotFound
		}
		return nil, fmt.Errorf("lookup race: %w", err)
	}

	if race.Status != domain.RaceStatusInProgress {
		return nil, ErrRaceNotRunning
	}

	participant, err := s.participants.GetByID(ctx, input.ParticipantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("lookup participant: %w", err)
	}
	if participant.RaceID != raceID {
		return nil, ErrParticipantNotFound
	}

	checkpoint, err := s.checkpoints.GetByID(ctx, input.CheckpointID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("lookup checkpoint: %w", err)
	}
	if checkpoint.TrackID != race.TrackID {
		return nil, ErrCheckpointMismatch
	}

	recordedAt := input.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	timing := domain.RaceTiming{
		ID:            uuid.NewString(),
		RaceID:        raceID,
		ParticipantID: participant.ID,
		CheckpointID:  checkpoint.ID,
		RecordedAt:    recordedAt.UTC(),
	}

	if err := s.timings.Create(ctx, timing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateTiming
		}
		return nil, fmt.Errorf("create timing: %w", err)
	}

	if s.events != nil {
		event := domain.TimingRecordedEvent{
			EventID:       uuid.NewString(),
			TimingID:      timing.ID,
			RaceID:        raceID,
			ParticipantID: participant.ID,
			CheckpointID:  checkpoint.ID,
			RecordedAt:    timing.RecordedAt,
		}
		if err := s.events.PublishTimingRecorded(ctx, event); err != nil {
			return nil, fmt.Errorf("publish timing event: %w", err)
		}
	}

	return &timing, nil
}

// ListByRace returns every timing record of a race in capture order.
func (s *TimingService) ListByRace(ctx context.Context, raceID string) ([]domain.RaceTiming, error) {
	timings, err := s.timings.ListByRace(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("list race timings: %w", err)
	}
	return timings, nil
}

// ListByParticipant returns a participant's checkpoint passes in capture order.
func (s *TimingService) ListByParticipant(ctx context.Context, participantID string) ([]domain.RaceTiming, error) {
	timings, err := s.timings.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("list participant timings: %w", err)
	}
	return timings, nil
}

// Remove deletes a timing record captured by mistake.
func (s *TimingService) Remove(ctx context.Context, id string) error {
	if err := s.timings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTimingNotFound
		}
		return fmt.Errorf("delete timing: %w", err)
	}
	return nil
}
