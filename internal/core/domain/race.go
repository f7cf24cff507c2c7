package domain

import (
	"encoding/json"
	"time"
)

// RaceType enumerates supported race formats.
type RaceType string

const (
	RaceTypeCircuit   RaceType = "CIRCUITO"
	RaceTypeLinear    RaceType = "RUTA_LINEAL"
	RaceTypeTimeTrial RaceType = "CONTRARELOJ"
)

// RaceStatus enumerates the lifecycle states of a race.
type RaceStatus string

const (
	RaceStatusDraft              RaceStatus = "BORRADOR"
	RaceStatusScheduled          RaceStatus = "PROGRAMADA"
	RaceStatusRegistrationClosed RaceStatus = "INSCRIPCION_CERRADA"
	RaceStatusInProgress         RaceStatus = "EN_CURSO"
	RaceStatusFinished           RaceStatus = "FINALIZADA"
	RaceStatusCancelled          RaceStatus = "CANCELADA"
)

// Track describes a course owned by an organization. GeoData carries the
// course geometry as GeoJSON.
type Track struct {
	ID             string
	Name           string
	Description    *string
	DistanceKm     float64
	ElevationGain  *float64
	GeoData        json.RawMessage
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Checkpoint is an ordered timing point along a track.
type Checkpoint struct {
	ID        string
	TrackID   string
	Name      string
	Latitude  float64
	Longitude float64
	Order     int
	IsStart   bool
	IsFinish  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups participants by age range and gender.
type Category struct {
	ID        string
	Name      string
	MinAge    *int
	MaxAge    *int
	Gender    *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Race is an event held by an organization on a track.
type Race struct {
	ID             string
	Name           string
	Date           time.Time
	LocationName   *string
	Status         RaceStatus
	Type           RaceType
	Laps           *int
	Price          *float64
	OrganizationID string
	TrackID        string
	CreatorID      string
	Categories     []Category
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// RaceParticipant registers a cyclist profile into a race.
type RaceParticipant struct {
	ID                 string
	RaceID             string
	ProfileID          string
	BicycleID          *string
	CategoryAssignedID *string
	BibNumber          int
	HasPaid            bool
	Status             *string
	FinalTimeMs        *int64
	Rank               *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RaceTiming records a participant passing a checkpoint during a race.
type RaceTiming struct {
	ID            string
	RaceID        string
	ParticipantID string
	CheckpointID  string
	RecordedAt    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
