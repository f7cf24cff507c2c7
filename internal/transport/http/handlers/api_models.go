package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes a user as returned by the API.
type UserSummary struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	FullName   string            `json:"full_name"`
	Phone      *string           `json:"phone,omitempty"`
	AvatarURL  *string           `json:"avatar_url,omitempty"`
	SystemRole domain.SystemRole `json:"system_role"`
	IsActive   bool              `json:"is_active"`
	Roles      []string          `json:"roles,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func newUserSummary(user domain.User) UserSummary {
	summary := UserSummary{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Phone:      user.Phone,
		AvatarURL:  user.AvatarURL,
		SystemRole: user.SystemRole,
		IsActive:   user.IsActive,
		CreatedAt:  user.CreatedAt,
	}

	if names := rbac.RoleNames(&user); len(names) > 0 {
		summary.Roles = names
	}

	return summary
}

// UserListResponse wraps a page of users.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Total int           `json:"total"`
}

// RegisterRequest defines the self-service registration payload.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" binding:"required"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
	Permissions []string    `json:"permissions"`
	MenuPrefix  string      `json:"menu_prefix"`
}

// APITokenResponse carries a freshly minted opaque API token.
type APITokenResponse struct {
	APIToken string `json:"api_token"`
}

// ChangePasswordRequest captures a password change request body.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// SessionResponse aggregates the session payload served to the frontend.
type SessionResponse struct {
	User        UserSummary     `json:"user"`
	Permissions []string        `json:"permissions"`
	MenuPrefix  string          `json:"menu_prefix"`
	Menu        []rbac.MenuItem `json:"menu"`
}

// ProfilePayload describes a cyclist profile.
type ProfilePayload struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	BloodType        *string    `json:"blood_type,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string    `json:"emergency_phone,omitempty"`
}

func newProfilePayload(profile domain.CyclistProfile) ProfilePayload {
	return ProfilePayload{
		ID:               profile.ID,
		UserID:           profile.UserID,
		BirthDate:        profile.BirthDate,
		BloodType:        profile.BloodType,
		EmergencyContact: profile.EmergencyContact,
		EmergencyPhone:   profile.EmergencyPhone,
	}
}

// UpdateProfileRequest captures the mutable fields of a cyclist profile.
type UpdateProfileRequest struct {
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	BloodType        *string    `json:"blood_type,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   *string    `json:"emergency_phone,omitempty"`
}

// CreateUserRequest defines the payload for administrative account creation.
type CreateUserRequest struct {
	Email            string            `json:"email" binding:"required,email"`
	Password         string            `json:"password" binding:"required,min=8"`
	FullName         string            `json:"full_name" binding:"required"`
	Phone            *string           `json:"phone,omitempty"`
	SystemRole       domain.SystemRole `json:"system_role" binding:"required"`
	RoleIDs          []string          `json:"role_ids,omitempty"`
	OrganizationName string            `json:"organization_name,omitempty"`
}

// UpdateUserRequest defines the payload for updating a user account.
type UpdateUserRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// PermissionPayload describes a catalog permission.
type PermissionPayload struct {
	ID          string  `json:"id"`
	Action      string  `json:"action"`
	Description *string `json:"description,omitempty"`
}

func newPermissionPayload(permission domain.Permission) PermissionPayload {
	return PermissionPayload{
		ID:          permission.ID,
		Action:      permission.Action,
		Description: permission.Description,
	}
}

// RolePayload summarizes a role entity with its granted actions.
type RolePayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func newRolePayload(role domain.Role) RolePayload {
	payload := RolePayload{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
	}

	for _, link := range role.Permissions {
		if link.Permission != nil {
			payload.Permissions = append(payload.Permissions, link.Permission.Action)
		}
	}

	return payload
}

// RoleCreateRequest defines the payload for creating a role.
type RoleCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// RoleUpdateRequest defines the payload for updating a role.
type RoleUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// RolePermissionsRequest grants or revokes catalog actions on a role.
type RolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// UserRolesRequest assigns or revokes roles on a user.
type UserRolesRequest struct {
	RoleIDs []string `json:"role_ids" binding:"required"`
}

// OrganizationPayload describes an organization.
type OrganizationPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newOrganizationPayload(organization domain.Organization) OrganizationPayload {
	return OrganizationPayload{
		ID:          organization.ID,
		Name:        organization.Name,
		Slug:        organization.Slug,
		Description: organization.Description,
		LogoURL:     organization.LogoURL,
		CreatedAt:   organization.CreatedAt,
	}
}

// OrganizationListResponse wraps a page of organizations.
type OrganizationListResponse struct {
	Organizations []OrganizationPayload `json:"organizations"`
	Total         int                   `json:"total"`
}

// OrganizationCreateRequest defines the payload for creating an organization.
type OrganizationCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	OwnerID     string  `json:"owner_id" binding:"required"`
}

// OrganizationUpdateRequest defines the payload for updating an organization.
type OrganizationUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// MemberPayload describes an organization membership.
type MemberPayload struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	OrganizationID string         `json:"organization_id"`
	Role           domain.OrgRole `json:"role"`
	Position       *string        `json:"position,omitempty"`
	IsActive       bool           `json:"is_active"`
	JoinedAt       time.Time      `json:"joined_at"`
	User           *UserSummary   `json:"user_detail,omitempty"`
}

func newMemberPayload(member domain.OrganizationMember) MemberPayload {
	payload := MemberPayload{
		ID:             member.ID,
		UserID:         member.UserID,
		OrganizationID: member.OrganizationID,
		Role:           member.Role,
		Position:       member.Position,
		IsActive:       member.IsActive,
		JoinedAt:       member.JoinedAt,
	}

	if member.User != nil {
		summary := newUserSummary(*member.User)
		payload.User = &summary
	}

	return payload
}

// MemberAddRequest registers a user into an organization.
type MemberAddRequest struct {
	UserID   string         `json:"user_id" binding:"required"`
	Role     domain.OrgRole `json:"role" binding:"required"`
	Position *string        `json:"position,omitempty"`
}

// MemberRoleRequest changes a member's role.
type MemberRoleRequest struct {
	Role domain.OrgRole `json:"role" binding:"required"`
}

// TrackPayload describes a track.
type TrackPayload struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	DistanceKm     float64         `json:"distance_km"`
	ElevationGain  *float64        `json:"elevation_gain,omitempty"`
	GeoData        json.RawMessage `json:"geo_data,omitempty"`
	OrganizationID string          `json:"organization_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

func newTrackPayload(track domain.Track) TrackPayload {
	return TrackPayload{
		ID:             track.ID,
		Name:           track.Name,
		Description:    track.Description,
		DistanceKm:     track.DistanceKm,
		ElevationGain:  track.ElevationGain,
		GeoData:        track.GeoData,
		OrganizationID: track.OrganizationID,
		CreatedAt:      track.CreatedAt,
	}
}

// TrackCreateRequest defines the payload for creating a track.
type TrackCreateRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    *string         `json:"description,omitempty"`
	DistanceKm     float64         `json:"distance_km" binding:"required,gt=0"`
	ElevationGain  *float64        `json:"elevation_gain,omitempty"`
	GeoData        json.RawMessage `json:"geo_data,omitempty"`
	OrganizationID string          `json:"organization_id" binding:"required"`
}

// TrackUpdateRequest defines the payload for updating a track.
type TrackUpdateRequest struct {
	Name          *string         `json:"name,omitempty"`
	Description   *string         `json:"description,omitempty"`
	DistanceKm    *float64        `json:"distance_km,omitempty"`
	ElevationGain *float64        `json:"elevation_gain,omitempty"`
	GeoData       json.RawMessage `json:"geo_data,omitempty"`
}

// CheckpointPayload describes an ordered timing point.
type CheckpointPayload struct {
	ID        string  `json:"id"`
	TrackID   string  `json:"track_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Order     int     `json:"order"`
	IsStart   bool    `json:"is_start"`
	IsFinish  bool    `json:"is_finish"`
}

func newCheckpointPayload(checkpoint domain.Checkpoint) CheckpointPayload {
	return CheckpointPayload{
		ID:        checkpoint.ID,
		TrackID:   checkpoint.TrackID,
		Name:      checkpoint.Name,
		Latitude:  checkpoint.Latitude,
		Longitude: checkpoint.Longitude,
		Order:     checkpoint.Order,
		IsStart:   checkpoint.IsStart,
		IsFinish:  checkpoint.IsFinish,
	}
}

// CheckpointRequest defines the payload for creating or replacing a checkpoint.
type CheckpointRequest struct {
	Name      string  `json:"name" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Order     int     `json:"order"`
	IsStart   bool    `json:"is_start"`
	IsFinish  bool    `json:"is_finish"`
}

// CategoryPayload describes a rider category.
type CategoryPayload struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	MinAge *int    `json:"min_age,omitempty"`
	MaxAge *int    `json:"max_age,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

func newCategoryPayload(category domain.Category) CategoryPayload {
	return CategoryPayload{
		ID:     category.ID,
		Name:   category.Name,
		MinAge: category.MinAge,
		MaxAge: category.MaxAge,
		Gender: category.Gender,
	}
}

// CategoryRequest defines the payload for creating or updating a category.
type CategoryRequest struct {
	Name   string  `json:"name" binding:"required"`
	MinAge *int    `json:"min_age,omitempty"`
	MaxAge *int    `json:"max_age,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// RacePayload describes a race.
type RacePayload struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Date           time.Time         `json:"date"`
	LocationName   *string           `json:"location_name,omitempty"`
	Status         domain.RaceStatus `json:"status"`
	Type           domain.RaceType   `json:"type"`
	Laps           *int              `json:"laps,omitempty"`
	Price          *float64          `json:"price,omitempty"`
	OrganizationID string            `json:"organization_id"`
	TrackID        string            `json:"track_id"`
	CreatorID      string            `json:"creator_id"`
	Categories     []CategoryPayload `json:"categories,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func newRacePayload(race domain.Race) RacePayload {
	payload := RacePayload{
		ID:             race.ID,
		Name:           race.Name,
		Date:           race.Date,
		LocationName:   race.LocationName,
		Status:         race.Status,
		Type:           race.Type,
		Laps:           race.Laps,
		Price:          race.Price,
		OrganizationID: race.OrganizationID,
		TrackID:        race.TrackID,
		CreatorID:      race.CreatorID,
		CreatedAt:      race.CreatedAt,
	}

	for _, category := range race.Categories {
		payload.Categories = append(payload.Categories, newCategoryPayload(category))
	}

	return payload
}

// RaceListResponse wraps a page of races.
type RaceListResponse struct {
	Races []RacePayload `json:"races"`
	Total int           `json:"total"`
}

// RaceCreateRequest defines the payload for creating a race.
type RaceCreateRequest struct {
	Name           string          `json:"name" binding:"required"`
	Date           time.Time       `json:"date" binding:"required"`
	LocationName   *string         `json:"location_name,omitempty"`
	Type           domain.RaceType `json:"type" binding:"required"`
	Laps           *int            `json:"laps,omitempty"`
	Price          *float64        `json:"price,omitempty"`
	OrganizationID string          `json:"organization_id" binding:"required"`
	TrackID        string          `json:"track_id" binding:"required"`
	CategoryIDs    []string        `json:"category_ids,omitempty"`
}

// RaceUpdateRequest defines the payload for updating a race.
type RaceUpdateRequest struct {
	Name         *string    `json:"name,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	LocationName *string    `json:"location_name,omitempty"`
	Laps         *int       `json:"laps,omitempty"`
	Price        *float64   `json:"price,omitempty"`
}

// RaceStatusRequest moves a race through its lifecycle.
type RaceStatusRequest struct {
	Status domain.RaceStatus `json:"status" binding:"required"`
}

// RaceCategoriesRequest attaches categories to a race.
type RaceCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids" binding:"required"`
}

// ParticipantPayload describes a race registration.
type ParticipantPayload struct {
	ID                 string  `json:"id"`
	RaceID             string  `json:"race_id"`
	ProfileID          string  `json:"profile_id"`
	BicycleID          *string `json:"bicycle_id,omitempty"`
	CategoryAssignedID *string `json:"category_assigned_id,omitempty"`
	BibNumber          int     `json:"bib_number"`
	HasPaid            bool    `json:"has_paid"`
	Status             *string `json:"status,omitempty"`
	FinalTimeMs        *int64  `json:"final_time_ms,omitempty"`
	Rank               *int    `json:"rank,omitempty"`
}

func newParticipantPayload(participant domain.RaceParticipant) ParticipantPayload {
	return ParticipantPayload{
		ID:                 participant.ID,
		RaceID:             participant.RaceID,
		ProfileID:          participant.ProfileID,
		BicycleID:          participant.BicycleID,
		CategoryAssignedID: participant.CategoryAssignedID,
		BibNumber:          participant.BibNumber,
		HasPaid:            participant.HasPaid,
		Status:             participant.Status,
		FinalTimeMs:        participant.FinalTimeMs,
		Rank:               participant.Rank,
	}
}

// ParticipantRegisterRequest enrolls a profile into a race.
type ParticipantRegisterRequest struct {
	ProfileID          string  `json:"profile_id" binding:"required"`
	BicycleID          *string `json:"bicycle_id,omitempty"`
	CategoryAssignedID *string `json:"category_assigned_id,omitempty"`
}

// ParticipantUpdateRequest updates a registration.
type ParticipantUpdateRequest struct {
	BicycleID          *string `json:"bicycle_id,omitempty"`
	CategoryAssignedID *string `json:"category_assigned_id,omitempty"`
	Status             *string `json:"status,omitempty"`
	FinalTimeMs        *int64  `json:"final_time_ms,omitempty"`
	Rank               *int    `json:"rank,omitempty"`
}

// BicyclePayload describes a bicycle.
type BicyclePayload struct {
	ID               string          `json:"id"`
	CyclistProfileID string          `json:"cyclist_profile_id"`
	Brand            string          `json:"brand"`
	Model            string          `json:"model"`
	Type             domain.BikeType `json:"type"`
	Color            *string         `json:"color,omitempty"`
	SerialNumber     *string         `json:"serial_number,omitempty"`
	PhotoURL         *string         `json:"photo_url,omitempty"`
	IsActive         bool            `json:"is_active"`
}

func newBicyclePayload(bicycle domain.Bicycle) BicyclePayload {
	return BicyclePayload{
		ID:               bicycle.ID,
		CyclistProfileID: bicycle.CyclistProfileID,
		Brand:            bicycle.Brand,
		Model:            bicycle.Model,
		Type:             bicycle.Type,
		Color:            bicycle.Color,
		SerialNumber:     bicycle.SerialNumber,
		PhotoURL:         bicycle.PhotoURL,
		IsActive:         bicycle.IsActive,
	}
}

// BicycleCreateRequest defines the payload for registering a bicycle.
type BicycleCreateRequest struct {
	Brand        string          `json:"brand" binding:"required"`
	Model        string          `json:"model" binding:"required"`
	Type         domain.BikeType `json:"type" binding:"required"`
	Color        *string         `json:"color,omitempty"`
	SerialNumber *string         `json:"serial_number,omitempty"`
	PhotoURL     *string         `json:"photo_url,omitempty"`
}

// BicycleUpdateRequest defines the payload for updating a bicycle.
type BicycleUpdateRequest struct {
	Brand        *string          `json:"brand,omitempty"`
	Model        *string          `json:"model,omitempty"`
	Type         *domain.BikeType `json:"type,omitempty"`
	Color        *string          `json:"color,omitempty"`
	SerialNumber *string          `json:"serial_number,omitempty"`
	PhotoURL     *string          `json:"photo_url,omitempty"`
}

// PaymentPayload describes a registration payment.
type PaymentPayload struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	RaceID        string               `json:"race_id"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Status        domain.PaymentStatus `json:"status"`
	TransactionID *string              `json:"transaction_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

func newPaymentPayload(payment domain.Payment) PaymentPayload {
	return PaymentPayload{
		ID:            payment.ID,
		UserID:        payment.UserID,
		RaceID:        payment.RaceID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
		CreatedAt:     payment.CreatedAt,
	}
}

// PaymentCreateRequest opens a pending payment.
type PaymentCreateRequest struct {
	RaceID   string  `json:"race_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency,omitempty"`
}

// PaymentCompleteRequest settles a pending payment.
type PaymentCompleteRequest struct {
	TransactionID *string `json:"transaction_id,omitempty"`
}

// TimingPayload describes a checkpoint pass.
type TimingPayload struct {
	ID            string    `json:"id"`
	RaceID        string    `json:"race_id"`
	ParticipantID string    `json:"participant_id"`
	CheckpointID  string    `json:"checkpoint_id"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func newTimingPayload(timing domain.RaceTiming) TimingPayload {
	return TimingPayload{
		ID:            timing.ID,
		RaceID:        timing.RaceID,
		ParticipantID: timing.ParticipantID,
		CheckpointID:  timing.CheckpointID,
		RecordedAt:    timing.RecordedAt,
	}
}

// TimingRecordRequest captures a checkpoint pass.
type TimingRecordRequest struct {
	ParticipantID string    `json:"participant_id" binding:"required"`
	CheckpointID  string    `json:"checkpoint_id" binding:"required"`
	RecordedAt    time.Time `json:"recorded_at,omitempty"`
}

// AuditEntryPayload describes an audit log record.
type AuditEntryPayload struct {
	ID        string             `json:"id"`
	UserID    *string            `json:"user_id,omitempty"`
	Action    domain.AuditAction `json:"action"`
	Entity    string             `json:"entity"`
	EntityID  string             `json:"entity_id"`
	OldData   json.RawMessage    `json:"old_data,omitempty"`
	NewData   json.RawMessage    `json:"new_data,omitempty"`
	IPAddress string             `json:"ip_address"`
	UserAgent *string            `json:"user_agent,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func newAuditEntryPayload(entry domain.AuditLog) AuditEntryPayload {
	return AuditEntryPayload{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		OldData:   entry.OldData,
		NewData:   entry.NewData,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		CreatedAt: entry.CreatedAt,
	}
}

// AuditListResponse wraps a page of audit entries.
type AuditListResponse struct {
	Entries []AuditEntryPayload `json:"entries"`
	Total   int                 `json:"total"`
}

// DashboardTotalsPayload carries platform-wide counts.
type DashboardTotalsPayload struct {
	Users         int `json:"users"`
	Organizations int `json:"organizations"`
	Races         int `json:"races"`
	Participants  int `json:"participants"`
}

// MonthlyCountPayload is a single month bucket of user signups.
type MonthlyCountPayload struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// CyclistResultsPayload summarizes the caller's record across finished races.
type CyclistResultsPayload struct {
	RacesFinished int      `json:"races_finished"`
	Podiums       int      `json:"podiums"`
	TotalKm       float64  `json:"total_km"`
	AverageRank   *float64 `json:"average_rank,omitempty"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newSessionResponse(summary usecase.Summary) SessionResponse {
	return SessionResponse{
		User:        newUserSummary(summary.User),
		Permissions: summary.Permissions,
		MenuPrefix:  summary.MenuPrefix,
		Menu:        summary.Menu,
	}
}
