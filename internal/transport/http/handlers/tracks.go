package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// TrackHandler serves course layouts and their timing checkpoints.
type TrackHandler struct {
	tracks *usecase.TrackService
	audit  *usecase.AuditService
	logger *zap.Logger
}

// NewTrackHandler builds a new track handler instance.
func NewTrackHandler(tracks *usecase.TrackService, audit *usecase.AuditService, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{tracks: tracks, audit: audit, logger: logger}
}

// Create registers a track for an organization.
func (h *TrackHandler) Create(c *gin.Context) {
	var req TrackCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid track payload"))
		return
	}

	track, err := h.tracks.CreateTrack(c.Request.Context(), usecase.CreateTrackInput{
		Name:           req.Name,
		Description:    req.Description,
		DistanceKm:     req.DistanceKm,
		ElevationGain:  req.ElevationGain,
		GeoData:        req.GeoData,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusBadRequest, Message: "organization not found"},
		}, http.StatusBadRequest, "failed to create track")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "track",
		EntityID: track.ID,
		Action:   domain.AuditActionCreate,
		NewData:  map[string]any{"name": track.Name, "organization_id": track.OrganizationID},
	})

	c.JSON(http.StatusCreated, newTrackPayload(*track))
}

// Get returns a single track.
func (h *TrackHandler) Get(c *gin.Context) {
	track, err := h.tracks.GetTrack(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTrackNotFound, Status: http.StatusNotFound, Message: "track not found"},
		}, http.StatusInternalServerError, "failed to load track")
		return
	}

	c.JSON(http.StatusOK, newTrackPayload(*track))
}

// List returns tracks, optionally scoped to one organization.
func (h *TrackHandler) List(c *gin.Context) {
	tracks, err := h.tracks.ListTracks(c.Request.Context(), c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list tracks"))
		return
	}

	payload := make([]TrackPayload, 0, len(tracks))
	for _, track := range tracks {
		payload = append(payload, newTrackPayload(track))
	}

	c.JSON(http.StatusOK, payload)
}

// Update applies partial changes to a track.
func (h *TrackHandler) Update(c *gin.Context) {
	var req TrackUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid track payload"))
		return
	}

	track, err := h.tracks.UpdateTrack(c.Request.Context(), c.Param("id"), usecase.UpdateTrackInput{
		Name:          req.Name,
		Description:   req.Description,
		DistanceKm:    req.DistanceKm,
		ElevationGain: req.ElevationGain,
		GeoData:       req.GeoData,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTrackNotFound, Status: http.StatusNotFound, Message: "track not found"},
		}, http.StatusInternalServerError, "failed to update track")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "track",
		EntityID: track.ID,
		Action:   domain.AuditActionUpdate,
		NewData:  req,
	})

	c.JSON(http.StatusOK, newTrackPayload(*track))
}

// Delete soft-removes a track.
func (h *TrackHandler) Delete(c *gin.Context) {
	trackID := c.Param("id")

	if err := h.tracks.DeleteTrack(c.Request.Context(), trackID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTrackNotFound, Status: http.StatusNotFound, Message: "track not found"},
		}, http.StatusInternalServerError, "failed to delete track")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "track",
		EntityID: trackID,
		Action:   domain.AuditActionDelete,
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "track deleted"})
}

// AddCheckpoint appends an ordered timing point to a track.
func (h *TrackHandler) AddCheckpoint(c *gin.Context) {
	var req CheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid checkpoint payload"))
		return
	}

	checkpoint, err := h.tracks.AddCheckpoint(c.Request.Context(), c.Param("id"), usecase.CheckpointInput{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Order:     req.Order,
		IsStart:   req.IsStart,
		IsFinish:  req.IsFinish,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTrackNotFound, Status: http.StatusNotFound, Message: "track not found"},
		}, http.StatusBadRequest, "failed to add checkpoint")
		return
	}

	c.JSON(http.StatusCreated, newCheckpointPayload(*checkpoint))
}

// ListCheckpoints returns the checkpoints of a track in course order.
func (h *TrackHandler) ListCheckpoints(c *gin.Context) {
	checkpoints, err := h.tracks.ListCheckpoints(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTrackNotFound, Status: http.StatusNotFound, Message: "track not found"},
		}, http.StatusInternalServerError, "failed to list checkpoints")
		return
	}

	payload := make([]CheckpointPayload, 0, len(checkpoints))
	for _, checkpoint := range checkpoints {
		payload = append(payload, newCheckpointPayload(checkpoint))
	}

	c.JSON(http.StatusOK, payload)
}

// UpdateCheckpoint replaces the definition of a checkpoint.
func (h *TrackHandler) UpdateCheckpoint(c *gin.Context) {
	var req CheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid checkpoint payload"))
		return
	}

	checkpoint, err := h.tracks.UpdateCheckpoint(c.Request.Context(), c.Param("checkpointId"), usecase.CheckpointInput{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Order:     req.Order,
		IsStart:   req.IsStart,
		IsFinish:  req.IsFinish,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCheckpointNotFound, Status: http.StatusNotFound, Message: "checkpoint not found"},
		}, http.StatusBadRequest, "failed to update checkpoint")
		return
	}

	c.JSON(http.StatusOK, newCheckpointPayload(*checkpoint))
}

// RemoveCheckpoint drops a checkpoint from a track.
func (h *TrackHandler) RemoveCheckpoint(c *gin.Context) {
	if err := h.tracks.RemoveCheckpoint(c.Request.Context(), c.Param("checkpointId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCheckpointNotFound, Status: http.StatusNotFound, Message: "checkpoint not found"},
		}, http.StatusInternalServerError, "failed to remove checkpoint")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "checkpoint removed"})
}
