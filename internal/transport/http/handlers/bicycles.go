package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// BicycleHandler serves the authenticated cyclist's garage.
type BicycleHandler struct {
	bicycles *usecase.BicycleService
	users    *usecase.UserService
}

// NewBicycleHandler builds a new bicycle handler instance.
func NewBicycleHandler(bicycles *usecase.BicycleService, users *usecase.UserService) *BicycleHandler {
	return &BicycleHandler{bicycles: bicycles, users: users}
}

// callerProfileID resolves the cyclist profile behind the authenticated user.
func (h *BicycleHandler) callerProfileID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return "", false
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "cyclist profile not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return "", false
	}

	return profile.ID, true
}

// Create registers a bicycle in the caller's garage.
func (h *BicycleHandler) Create(c *gin.Context) {
	profileID, ok := h.callerProfileID(c)
	if !ok {
		return
	}

	var req BicycleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bicycle payload"))
		return
	}

	bicycle, err := h.bicycles.CreateBicycle(c.Request.Context(), profileID, usecase.CreateBicycleInput{
		Brand:        req.Brand,
		Model:        req.Model,
		Type:         req.Type,
		Color:        req.Color,
		SerialNumber: req.SerialNumber,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidBikeType, Status: http.StatusBadRequest, Message: "invalid bicycle type"},
			{Err: usecase.ErrProfileNotFound, Status: http.StatusBadRequest, Message: "cyclist profile not found"},
		}, http.StatusBadRequest, "failed to register bicycle")
		return
	}

	c.JSON(http.StatusCreated, newBicyclePayload(*bicycle))
}

// List returns the caller's bicycles.
func (h *BicycleHandler) List(c *gin.Context) {
	profileID, ok := h.callerProfileID(c)
	if !ok {
		return
	}

	bicycles, err := h.bicycles.ListByProfile(c.Request.Context(), profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list bicycles"))
		return
	}

	payload := make([]BicyclePayload, 0, len(bicycles))
	for _, bicycle := range bicycles {
		payload = append(payload, newBicyclePayload(bicycle))
	}

	c.JSON(http.StatusOK, payload)
}

// Get returns a single bicycle.
func (h *BicycleHandler) Get(c *gin.Context) {
	bicycle, err := h.bicycles.GetBicycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBicycleNotFound, Status: http.StatusNotFound, Message: "bicycle not found"},
		}, http.StatusInternalServerError, "failed to load bicycle")
		return
	}

	c.JSON(http.StatusOK, newBicyclePayload(*bicycle))
}

// Update applies partial changes to a bicycle.
func (h *BicycleHandler) Update(c *gin.Context) {
	var req BicycleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid bicycle payload"))
		return
	}

	bicycle, err := h.bicycles.UpdateBicycle(c.Request.Context(), c.Param("id"), usecase.UpdateBicycleInput{
		Brand:        req.Brand,
		Model:        req.Model,
		Type:         req.Type,
		Color:        req.Color,
		SerialNumber: req.SerialNumber,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBicycleNotFound, Status: http.StatusNotFound, Message: "bicycle not found"},
			{Err: usecase.ErrInvalidBikeType, Status: http.StatusBadRequest, Message: "invalid bicycle type"},
		}, http.StatusBadRequest, "failed to update bicycle")
		return
	}

	c.JSON(http.StatusOK, newBicyclePayload(*bicycle))
}

// Retire deactivates a bicycle without losing its race history.
func (h *BicycleHandler) Retire(c *gin.Context) {
	if err := h.bicycles.RetireBicycle(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrBicycleNotFound, Status: http.StatusNotFound, Message: "bicycle not found"},
		}, http.StatusInternalServerError, "failed to retire bicycle")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "bicycle retired"})
}
