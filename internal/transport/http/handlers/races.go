package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// RaceHandler serves race lifecycle and category management.
type RaceHandler struct {
	races  *usecase.RaceService
	audit  *usecase.AuditService
	logger *zap.Logger
}

// NewRaceHandler builds a new race handler instance.
func NewRaceHandler(races *usecase.RaceService, audit *usecase.AuditService, logger *zap.Logger) *RaceHandler {
	return &RaceHandler{races: races, audit: audit, logger: logger}
}

// Create schedules a race in draft state. The authenticated user becomes
// its creator.
func (h *RaceHandler) Create(c *gin.Context) {
	creatorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req RaceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid race payload"))
		return
	}

	race, err := h.races.CreateRace(c.Request.Context(), usecase.CreateRaceInput{
		Name:           req.Name,
		Date:           req.Date,
		LocationName:   req.LocationName,
		Type:           req.Type,
		Laps:           req.Laps,
		Price:          req.Price,
		OrganizationID: req.OrganizationID,
		TrackID:        req.TrackID,
		CreatorID:      creatorID,
		CategoryIDs:    req.CategoryIDs,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusBadRequest, Message: "organization not found"},
			{Err: usecase.ErrTrackNotFound, Status: http.StatusBadRequest, Message: "track not found"},
			{Err: usecase.ErrTrackMismatch, Status: http.StatusBadRequest, Message: "track belongs to another organization"},
			{Err: usecase.ErrInvalidRaceType, Status: http.StatusBadRequest, Message: "invalid race type"},
		}, http.StatusBadRequest, "failed to create race")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  &creatorID,
		Entity:   "race",
		EntityID: race.ID,
		Action:   domain.AuditActionCreate,
		NewData:  map[string]any{"name": race.Name, "organization_id": race.OrganizationID, "track_id": race.TrackID},
	})

	c.JSON(http.StatusCreated, newRacePayload(*race))
}

// Get returns a single race with its categories.
func (h *RaceHandler) Get(c *gin.Context) {
	race, err := h.races.GetRace(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
		}, http.StatusInternalServerError, "failed to load race")
		return
	}

	c.JSON(http.StatusOK, newRacePayload(*race))
}

// List returns a filtered page of races.
func (h *RaceHandler) List(c *gin.Context) {
	filter := port.RaceFilter{
		OrganizationID: c.Query("organization_id"),
		Limit:          parseIntQuery(c, "limit", 50),
		Offset:         parseIntQuery(c, "offset", 0),
	}

	if status := c.Query("status"); status != "" {
		parsed := domain.RaceStatus(status)
		filter.Status = &parsed
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filter.From = &from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filter.To = &to
	}

	races, total, err := h.races.ListRaces(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list races"))
		return
	}

	payload := make([]RacePayload, 0, len(races))
	for _, race := range races {
		payload = append(payload, newRacePayload(race))
	}

	c.JSON(http.StatusOK, RaceListResponse{Races: payload, Total: total})
}

// Update applies partial changes to a race that has not finished.
func (h *RaceHandler) Update(c *gin.Context) {
	var req RaceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid race payload"))
		return
	}

	race, err := h.races.UpdateRace(c.Request.Context(), c.Param("id"), usecase.UpdateRaceInput{
		Name:         req.Name,
		Date:         req.Date,
		LocationName: req.LocationName,
		Laps:         req.Laps,
		Price:        req.Price,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrInvalidTransition, Status: http.StatusConflict, Message: "race can no longer be modified"},
		}, http.StatusInternalServerError, "failed to update race")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "race",
		EntityID: race.ID,
		Action:   domain.AuditActionUpdate,
		NewData:  req,
	})

	c.JSON(http.StatusOK, newRacePayload(*race))
}

// ChangeStatus advances a race through its lifecycle.
func (h *RaceHandler) ChangeStatus(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req RaceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	race, err := h.races.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status, actorID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrInvalidTransition, Status: http.StatusConflict, Message: "invalid race status transition"},
		}, http.StatusInternalServerError, "failed to change race status")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  &actorID,
		Entity:   "race",
		EntityID: race.ID,
		Action:   domain.AuditActionUpdate,
		NewData:  map[string]any{"status": race.Status, "changed_at": time.Now().UTC()},
	})

	c.JSON(http.StatusOK, newRacePayload(*race))
}

// Delete removes a race that never left draft, or was cancelled.
func (h *RaceHandler) Delete(c *gin.Context) {
	raceID := c.Param("id")

	if err := h.races.DeleteRace(c.Request.Context(), raceID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrInvalidTransition, Status: http.StatusConflict, Message: "only draft or cancelled races can be deleted"},
		}, http.StatusInternalServerError, "failed to delete race")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "race",
		EntityID: raceID,
		Action:   domain.AuditActionDelete,
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "race deleted"})
}

// AttachCategories links catalog categories to a race.
func (h *RaceHandler) AttachCategories(c *gin.Context) {
	var req RaceCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid categories payload"))
		return
	}

	attached, err := h.races.AttachCategories(c.Request.Context(), c.Param("id"), req.CategoryIDs)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrCategoryNotFound, Status: http.StatusBadRequest, Message: "category not found"},
		}, http.StatusInternalServerError, "failed to attach categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"attached": attached})
}

// DetachCategory unlinks a category from a race.
func (h *RaceHandler) DetachCategory(c *gin.Context) {
	err := h.races.DetachCategory(c.Request.Context(), c.Param("id"), c.Param("categoryId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrCategoryNotFound, Status: http.StatusNotFound, Message: "category not attached"},
		}, http.StatusInternalServerError, "failed to detach category")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "category detached"})
}
