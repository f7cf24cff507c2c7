package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// TimingHandler serves checkpoint pass recording for running races.
type TimingHandler struct {
	timings *usecase.TimingService
}

// NewTimingHandler builds a new timing handler instance.
func NewTimingHandler(timings *usecase.TimingService) *TimingHandler {
	return &TimingHandler{timings: timings}
}

// Record captures a checkpoint pass for a participant of a running race.
func (h *TimingHandler) Record(c *gin.Context) {
	var req TimingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid timing payload"))
		return
	}

	timing, err := h.timings.Record(c.Request.Context(), c.Param("id"), usecase.RecordTimingInput{
		ParticipantID: req.ParticipantID,
		CheckpointID:  req.CheckpointID,
		RecordedAt:    req.RecordedAt,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
			{Err: usecase.ErrRaceNotRunning, Status: http.StatusConflict, Message: "race is not in progress"},
			{Err: usecase.ErrParticipantNotFound, Status: http.StatusBadRequest, Message: "participant not registered for this race"},
			{Err: usecase.ErrCheckpointMismatch, Status: http.StatusBadRequest, Message: "checkpoint does not belong to the race track"},
			{Err: usecase.ErrDuplicateTiming, Status: http.StatusConflict, Message: "checkpoint pass already recorded"},
		}, http.StatusInternalServerError, "failed to record timing")
		return
	}

	c.JSON(http.StatusCreated, newTimingPayload(*timing))
}

// ListByRace returns every checkpoint pass recorded for a race.
func (h *TimingHandler) ListByRace(c *gin.Context) {
	timings, err := h.timings.ListByRace(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
		}, http.StatusInternalServerError, "failed to list timings")
		return
	}

	payload := make([]TimingPayload, 0, len(timings))
	for _, timing := range timings {
		payload = append(payload, newTimingPayload(timing))
	}

	c.JSON(http.StatusOK, payload)
}

// ListByParticipant returns the checkpoint passes of one participant.
func (h *TimingHandler) ListByParticipant(c *gin.Context) {
	timings, err := h.timings.ListByParticipant(c.Request.Context(), c.Param("participantId"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrParticipantNotFound, Status: http.StatusNotFound, Message: "participant not found"},
		}, http.StatusInternalServerError, "failed to list timings")
		return
	}

	payload := make([]TimingPayload, 0, len(timings))
	for _, timing := range timings {
		payload = append(payload, newTimingPayload(timing))
	}

	c.JSON(http.StatusOK, payload)
}

// Remove deletes a mistakenly recorded checkpoint pass.
func (h *TimingHandler) Remove(c *gin.Context) {
	if err := h.timings.Remove(c.Request.Context(), c.Param("timingId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTimingNotFound, Status: http.StatusNotFound, Message: "timing record not found"},
		}, http.StatusInternalServerError, "failed to remove timing")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "timing removed"})
}
