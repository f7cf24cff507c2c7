package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// ParticipantHandler serves race registrations.
type ParticipantHandler struct {
	participants *usecase.ParticipantService
}

// NewParticipantHandler builds a new participant handler instance.
func NewParticipantHandler(participants *usecase.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants}
}

// Register enrolls a cyclist profile into a race and assigns the next
// bib number.
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req ParticipantRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	participant, err := h.participants.Register(c.Request.Context(), c.Param("id"), usecase.RegisterParticipantInput{
		ProfileID:          req.ProfileID,
		BicycleID:          req.BicycleID,
		CategoryAssignedID: req.CategoryAssignedID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrProfileNotFound, Status: http.StatusBadRequest, Message: "cyclist profile not found"},
			{Err: usecase.ErrAlreadyRegistered, Status: http.StatusConflict, Message: "profile already registered for this race"},
			{Err: usecase.ErrRegistrationClosed, Status: http.StatusConflict, Message: "race registration is closed"},
		}, http.StatusInternalServerError, "failed to register participant")
		return
	}

	c.JSON(http.StatusCreated, newParticipantPayload(*participant))
}

// Get returns a single registration.
func (h *ParticipantHandler) Get(c *gin.Context) {
	participant, err := h.participants.GetParticipant(c.Request.Context(), c.Param("participantId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrParticipantNotFound, Status: http.StatusNotFound, Message: "participant not found"},
		}, http.StatusInternalServerError, "failed to load participant")
		return
	}

	c.JSON(http.StatusOK, newParticipantPayload(*participant))
}

// ListByRace returns the start list of a race ordered by bib number.
func (h *ParticipantHandler) ListByRace(c *gin.Context) {
	participants, err := h.participants.ListByRace(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
		}, http.StatusInternalServerError, "failed to list participants")
		return
	}

	payload := make([]ParticipantPayload, 0, len(participants))
	for _, participant := range participants {
		payload = append(payload, newParticipantPayload(participant))
	}

	c.JSON(http.StatusOK, payload)
}

// Update applies result or assignment changes to a registration.
func (h *ParticipantHandler) Update(c *gin.Context) {
	var req ParticipantUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid participant payload"))
		return
	}

	participant, err := h.participants.UpdateParticipant(c.Request.Context(), c.Param("participantId"), usecase.UpdateParticipantInput{
		BicycleID:          req.BicycleID,
		CategoryAssignedID: req.CategoryAssignedID,
		Status:             req.Status,
		FinalTimeMs:        req.FinalTimeMs,
		Rank:               req.Rank,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrParticipantNotFound, Status: http.StatusNotFound, Message: "participant not found"},
		}, http.StatusBadRequest, "failed to update participant")
		return
	}

	c.JSON(http.StatusOK, newParticipantPayload(*participant))
}

// Withdraw removes a registration before the race starts.
func (h *ParticipantHandler) Withdraw(c *gin.Context) {
	if err := h.participants.Withdraw(c.Request.Context(), c.Param("participantId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrParticipantNotFound, Status: http.StatusNotFound, Message: "participant not found"},
			{Err: usecase.ErrRegistrationClosed, Status: http.StatusConflict, Message: "race has already started"},
		}, http.StatusInternalServerError, "failed to withdraw participant")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "registration withdrawn"})
}
