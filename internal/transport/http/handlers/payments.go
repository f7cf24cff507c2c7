package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// PaymentHandler serves race registration payments.
type PaymentHandler struct {
	payments *usecase.PaymentService
}

// NewPaymentHandler builds a new payment handler instance.
func NewPaymentHandler(payments *usecase.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create opens a pending payment for the authenticated user.
func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req PaymentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payment payload"))
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), usecase.CreatePaymentInput{
		UserID:   userID,
		RaceID:   req.RaceID,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusBadRequest, Message: "race not found"},
		}, http.StatusBadRequest, "failed to create payment")
		return
	}

	c.JSON(http.StatusCreated, newPaymentPayload(*payment))
}

// Get returns a single payment.
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPaymentNotFound, Status: http.StatusNotFound, Message: "payment not found"},
		}, http.StatusInternalServerError, "failed to load payment")
		return
	}

	c.JSON(http.StatusOK, newPaymentPayload(*payment))
}

// ListMine returns the authenticated user's payments.
func (h *PaymentHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	payments, err := h.payments.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list payments"))
		return
	}

	payload := make([]PaymentPayload, 0, len(payments))
	for _, payment := range payments {
		payload = append(payload, newPaymentPayload(payment))
	}

	c.JSON(http.StatusOK, payload)
}

// ListByRace returns every payment recorded against a race.
func (h *PaymentHandler) ListByRace(c *gin.Context) {
	payments, err := h.payments.ListByRace(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRaceNotFound, Status: http.StatusNotFound, Message: "race not found"},
		}, http.StatusInternalServerError, "failed to list payments")
		return
	}

	payload := make([]PaymentPayload, 0, len(payments))
	for _, payment := range payments {
		payload = append(payload, newPaymentPayload(payment))
	}

	c.JSON(http.StatusOK, payload)
}

// Complete settles a pending payment and marks the matching registration
// as paid.
func (h *PaymentHandler) Complete(c *gin.Context) {
	var req PaymentCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payment payload"))
		return
	}

	payment, err := h.payments.CompletePayment(c.Request.Context(), c.Param("id"), req.TransactionID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPaymentNotFound, Status: http.StatusNotFound, Message: "payment not found"},
			{Err: usecase.ErrPaymentFinalized, Status: http.StatusConflict, Message: "payment already finalized"},
		}, http.StatusInternalServerError, "failed to complete payment")
		return
	}

	c.JSON(http.StatusOK, newPaymentPayload(*payment))
}

// Fail marks a pending payment as failed.
func (h *PaymentHandler) Fail(c *gin.Context) {
	payment, err := h.payments.FailPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPaymentNotFound, Status: http.StatusNotFound, Message: "payment not found"},
			{Err: usecase.ErrPaymentFinalized, Status: http.StatusConflict, Message: "payment already finalized"},
		}, http.StatusInternalServerError, "failed to mark payment as failed")
		return
	}

	c.JSON(http.StatusOK, newPaymentPayload(*payment))
}
