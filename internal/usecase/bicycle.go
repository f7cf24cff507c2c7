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
	// ErrBicycleNotFound is returned when the referenced bicycle does not exist.
	ErrBicycleNotFound = errors.New("bicycle not found")
	// ErrInvalidBikeType indicates a bicycle type outside the allowed set.
	ErrInvalidBikeType = errors.New("invalid bicycle type")
)

// CreateBicycleInput captures the payload for registering a bicycle.
type CreateBicycleInput struct {
	Brand        string
	Model        string
	Type         domain.BikeType
	Color        *string
	SerialNumber *string
	PhotoURL     *string
}

// UpdateBicycleInput captures the mutable fields of a bicycle.
type UpdateBicycleInput struct {
	Brand        *string
	Model        *string
	Type         *domain.BikeType
	Color        *string
	SerialNumber *string
	PhotoURL     *string
}

// BicycleService manages the bicycles attached to cyclist profiles.
type BicycleService struct {
	bicycles port.BicycleRepository
	profiles port.CyclistProfileRepository
}

// NewBicycleService constructs a BicycleService.
func NewBicycleService(bicycles port.BicycleRepository, profiles port.CyclistProfileRepository) *BicycleService {
	return &BicycleService{bicycles: bicycles, profiles: profiles}
}

// CreateBicycle registers a bicycle under a cyclist profile.
func (s *BicycleService) CreateBicycle(ctx context.Context, profileID string, input CreateBicycleInput) (*domain.Bicycle, error) {
	brand := strings.TrimSpace(input.Brand)
	if brand == "" {
		return nil, fmt.Errorf("bicycle brand is required")
	}
	model := strings.TrimSpace(input.Model)
	if model == "" {
		return nil, fmt.Errorf("bicycle model is required")
	}
	if !validBikeType(input.Type) {
		return nil, ErrInvalidBikeType
	}

	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("lookup profile: %w", err)
	}

	now := time.Now().UTC()
	bicycle := domain.Bicycle{
		ID:               uuid.NewString(),
		CyclistProfileID: profileID,
		Brand:            brand,
		Model:            model,
		Type:             input.Type,
		Color:            input.Color,
		SerialNumber:     input.SerialNumber,
		PhotoURL:         input.PhotoURL,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.bicycles.Create(ctx, bicycle); err != nil {
		return nil, fmt.Errorf("create bicycle: %w", err)
	}

	return &bicycle, nil
}

// GetBicycle returns a bicycle by identifier.
func (s *BicycleService) GetBicycle(ctx context.Context, id string) (*domain.Bicycle, error) {
	bicycle, err := s.bicycles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBicycleNotFound
		}
		return nil, fmt.Errorf("lookup bicycle: %w", err)
	}
	return bicycle, nil
}

// ListByProfile returns a profile's bicycles.
func (s *BicycleService) ListByProfile(ctx context.Context, profileID string) ([]domain.Bicycle, error) {
	bicycles, err := s.bicycles.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list bicycles: %w", err)
	}
	return bicycles, nil
}

// UpdateBicycle applies partial changes to a bicycle.
func (s *BicycleService) UpdateBicycle(ctx context.Context, id string, input UpdateBicycleInput) (*domain.Bicycle, error) {
	bicycle, err := s.GetBicycle(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Brand != nil {
		brand := strings.TrimSpace(*input.Brand)
		if brand == "" {
			return nil, fmt.Errorf("bicycle brand is required")
		}
		bicycle.Brand = brand
	}
	if input.Model != nil {
		model := strings.TrimSpace(*input.Model)
		if model == "" {
			return nil, fmt.Errorf("bicycle model is required")
		}
		bicycle.Model = model
	}
	if input.Type != nil {
		if !validBikeType(*input.Type) {
			return nil, ErrInvalidBikeType
		}
		bicycle.Type = *input.Type
	}
	if input.Color != nil {
		bicycle.Color = input.Color
	}
	if input.SerialNumber != nil {
		bicycle.SerialNumber = input.SerialNumber
	}
	if input.PhotoURL != nil {
		bicycle.PhotoURL = input.PhotoURL
	}

	bicycle.UpdatedAt = time.Now().UTC()
	if err := s.bicycles.Update(ctx, *bicycle); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBicycleNotFound
		}
		return nil, fmt.Errorf("update bicycle: %w", err)
	}

	return bicycle, nil
}

// RetireBicycle marks a bicycle inactive without deleting its history.
func (s *BicycleService) RetireBicycle(ctx context.Context, id string) error {
	if err := s.bicycles.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBicycleNotFound
		}
		return fmt.Errorf("retire bicycle: %w", err)
	}
	return nil
}

func validBikeType(bikeType domain.BikeType) bool {
	switch bikeType {
	case domain.BikeTypeMTB, domain.BikeTypeRoad, domain.BikeTypeGravel,
		domain.BikeTypeBMX, domain.BikeTypeEBike, domain.BikeTypeOther:
		return true
	default:
		return false
	}
}
