package domain

import "time"

// BikeType enumerates supported bicycle categories.
type BikeType string

const (
	BikeTypeMTB    BikeType = "MTB"
	BikeTypeRoad   BikeType = "RUTA"
	BikeTypeGravel BikeType = "GRAVEL"
	BikeTypeBMX    BikeType = "BMX"
	BikeTypeEBike  BikeType = "E_BIKE"
	BikeTypeOther  BikeType = "OTRO"
)

// Bicycle belongs to a cyclist profile and can be attached to registrations.
type Bicycle struct {
	ID               string
	CyclistProfileID string
	Brand            string
	Model            string
	Type             BikeType
	Color            *string
	SerialNumber     *string
	PhotoURL         *string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
