package usecase

import (
	"context"
	"encoding/json"
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
	// ErrTrackNotFound is returned when the referenced track does not exist.
	ErrTrackNotFound = errors.New("track not found")
	// ErrCheckpointNotFound is returned when the referenced checkpoint does not exist.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// CreateTrackInput captures the payload for creating a track.
type CreateTrackInput struct {
	Name           string
	Description    *string
	DistanceKm     float64
	ElevationGain  *float64
	GeoData        json.RawMessage
	OrganizationID string
}

// UpdateTrackInput captures the mutable fields of a track.
type UpdateTrackInput struct {
	Name          *string
	Description   *string
	DistanceKm    *float64
	ElevationGain *float64
	GeoData       json.RawMessage
}

// CheckpointInput captures the payload for creating or replacing a checkpoint.
type CheckpointInput struct {
	Name      string
	Latitude  float64
	Longitude float64
	Order     int
	IsStart   bool
	IsFinish  bool
}

// TrackService manages tracks and their checkpoints.
type TrackService struct {
	tracks        port.TrackRepository
	checkpoints   port.CheckpointRepository
	organizations port.OrganizationRepository
}

// NewTrackService constructs a TrackService.
func NewTrackService(
	tracks port.TrackRepository,
	checkpoints port.CheckpointRepository,
	organizations port.OrganizationRepository,
) *TrackService {
	return &TrackService{tracks: tracks, checkpoints: checkpoints, organizations: organizations}
}

// CreateTrack provisions a track owned by an organization.
func (s *TrackService) CreateTrack(ctx context.Context, input CreateTrackInput) (*domain.Track, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("track name is required")
	}
	if input.DistanceKm <= 0 {
		return nil, fmt.Errorf("distance must be positive")
	}

	if _, err := s.organizations.GetByID(ctx, input.OrganizationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("lookup organization: %w", err)
	}

	now := time.Now().UTC()
	track := domain.Track{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    input.Description,
		DistanceKm:     input.DistanceKm,
		ElevationGain:  input.ElevationGain,
		GeoData:        input.GeoData,
		OrganizationID: input.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.tracks.Create(ctx, track); err != nil {
		return nil, fmt.Errorf("create track: %w", err)
	}

	return &track, nil
}

// GetTrack returns a track by identifier.
func (s *TrackService) GetTrack(ctx context.Context, id string) (*domain.Track, error) {
	track, err := s.tracks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("lookup track: %w", err)
	}
	return track, nil
}

// ListTracks returns all tracks, optionally scoped to one organization.
func (s *TrackService) ListTracks(ctx context.Context, organizationID string) ([]domain.Track, error) {
	if organizationID = strings.TrimSpace(organizationID); organizationID != "" {
		tracks, err := s.tracks.ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, fmt.Errorf("list organization tracks: %w", err)
		}
		return tracks, nil
	}

	tracks, err := s.tracks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return tracks, nil
}

// UpdateTrack applies partial changes to a track.
func (s *TrackService) UpdateTrack(ctx context.Context, id string, input UpdateTrackInput) (*domain.Track, error) {
	track, err := s.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("track name is required")
		}
		track.Name = name
	}
	if input.Description != nil {
		track.Description = input.Description
	}
	if input.DistanceKm != nil {
		if *input.DistanceKm <= 0 {
			return nil, fmt.Errorf("distance must be positive")
		}
		track.DistanceKm = *input.DistanceKm
	}
	if input.ElevationGain != nil {
		track.ElevationGain = input.ElevationGain
	}
	if input.GeoData != nil {
		track.GeoData = input.GeoData
	}

	track.UpdatedAt = time.Now().UTC()
	if err := s.tracks.Update(ctx, *track); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("update track: %w", err)
	}

	return track, nil
}

// DeleteTrack soft deletes a track.
func (s *TrackService) DeleteTrack(ctx context.Context, id string) error {
	if err := s.tracks.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrackNotFound
		}
		return fmt.Errorf("delete track: %w", err)
	}
	return nil
}

// AddCheckpoint attaches a checkpoint to a track.
func (s *TrackService) AddCheckpoint(ctx context.Context, trackID string, input CheckpointInput) (*domain.Checkpoint, error) {
	if err := validateCheckpoint(input); err != nil {
		return nil, err
	}

	if _, err := s.GetTrack(ctx, trackID); err != nil {
		return nil, err
	}

	checkpoint := domain.Checkpoint{
		ID:        uuid.NewString(),
		TrackID:   trackID,
		Name:      strings.TrimSpace(input.Name),
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Order:     input.Order,
		IsStart:   input.IsStart,
		IsFinish:  input.IsFinish,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.checkpoints.Create(ctx, checkpoint); err != nil {
		return nil, fmt.Errorf("create checkpoint: %w", err)
	}

	return &checkpoint, nil
}

// ListCheckpoints returns a track's checkpoints in course order.
func (s *TrackService) ListCheckpoints(ctx context.Context, trackID string) ([]domain.Checkpoint, error) {
	checkpoints, err := s.checkpoints.ListByTrack(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return checkpoints, nil
}

// UpdateCheckpoint replaces the editable fields of a checkpoint.
func (s *TrackService) UpdateCheckpoint(ctx context.Context, checkpointID string, input CheckpointInput) (*domain.Checkpoint, error) {
	if err := validateCheckpoint(input); err != nil {
		return nil, err
	}

	checkpoint, err := s.checkpoints.GetByID(ctx, checkpointID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("lookup checkpoint: %w", err)
	}

	checkpoint.Name = strings.TrimSpace(input.Name)
	checkpoint.Latitude = input.Latitude
	checkpoint.Longitude = input.Longitude
	checkpoint.Order = input.Order
	checkpoint.IsStart = input.IsStart
	checkpoint.IsFinish = input.IsFinish

	if err := s.checkpoints.Update(ctx, *checkpoint); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("update checkpoint: %w", err)
	}

	return checkpoint, nil
}

// RemoveCheckpoint deletes a checkpoint.
func (s *TrackService) RemoveCheckpoint(ctx context.Context, checkpointID string) error {
	if err := s.checkpoints.Delete(ctx, checkpointID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("delete checkpoint: %w", err)
	}
	return nil
}

func validateCheckpoint(input CheckpointInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return fmt.Errorf("latitude out of range")
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return fmt.Errorf("longitude out of range")
	}
	if input.Order < 0 {
		return fmt.Errorf("order must not be negative")
	}
	return nil
}
