package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// DashboardHandler serves navigation menus and platform statistics.
type DashboardHandler struct {
	dashboard *usecase.DashboardService
}

// NewDashboardHandler builds a new dashboard handler instance.
func NewDashboardHandler(dashboard *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Menu returns the caller's permission-filtered navigation tree.
func (h *DashboardHandler) Menu(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	menu, err := h.dashboard.Menu(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to build menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu": menu})
}

// Totals returns platform-wide entity counts.
func (h *DashboardHandler) Totals(c *gin.Context) {
	totals, err := h.dashboard.Totals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load totals"))
		return
	}

	c.JSON(http.StatusOK, DashboardTotalsPayload{
		Users:         totals.Users,
		Organizations: totals.Organizations,
		Races:         totals.Races,
		Participants:  totals.Participants,
	})
}

// MonthlyRegistrations returns user signups bucketed by month.
func (h *DashboardHandler) MonthlyRegistrations(c *gin.Context) {
	months := parseIntQuery(c, "months", 12)

	counts, err := h.dashboard.MonthlyRegistrations(c.Request.Context(), months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load registrations"))
		return
	}

	payload := make([]MonthlyCountPayload, 0, len(counts))
	for _, bucket := range counts {
		payload = append(payload, MonthlyCountPayload{Month: bucket.Month, Count: bucket.Count})
	}

	c.JSON(http.StatusOK, payload)
}

// MyResults returns the caller's record across finished races.
func (h *DashboardHandler) MyResults(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	results, err := h.dashboard.CyclistResults(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "cyclist profile not found"},
		}, http.StatusInternalServerError, "failed to load results")
		return
	}

	c.JSON(http.StatusOK, CyclistResultsPayload{
		RacesFinished: results.RacesFinished,
		Podiums:       results.Podiums,
		TotalKm:       results.TotalKm,
		AverageRank:   results.AverageRank,
	})
}

// MySchedule lists the races the caller is registered for that have not yet run.
func (h *DashboardHandler) MySchedule(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	limit := parseIntQuery(c, "limit", 10)

	races, err := h.dashboard.UpcomingSchedule(c.Request.Context(), userID, limit)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "cyclist profile not found"},
		}, http.StatusInternalServerError, "failed to load schedule")
		return
	}

	payload := make([]RacePayload, 0, len(races))
	for _, race := range races {
		payload = append(payload, newRacePayload(race))
	}

	c.JSON(http.StatusOK, gin.H{"races": payload})
}
