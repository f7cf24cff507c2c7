package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// AuditHandler serves the immutable audit trail.
type AuditHandler struct {
	audit *usecase.AuditService
}

// NewAuditHandler builds a new audit handler instance.
func NewAuditHandler(audit *usecase.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns audit entries filtered by actor, entity, action, and time range.
func (h *AuditHandler) List(c *gin.Context) {
	filter := port.AuditFilter{
		UserID: c.Query("user_id"),
		Entity: c.Query("entity"),
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}

	if action := c.Query("action"); action != "" {
		parsed := domain.AuditAction(action)
		filter.Action = &parsed
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filter.From = &from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filter.To = &to
	}

	entries, total, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list audit entries"))
		return
	}

	payload := make([]AuditEntryPayload, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, newAuditEntryPayload(entry))
	}

	c.JSON(http.StatusOK, AuditListResponse{Entries: payload, Total: total})
}

// recordAudit persists an audit entry enriched with request metadata. Audit
// failures are logged, never surfaced to the client.
func recordAudit(c *gin.Context, audit *usecase.AuditService, logger *zap.Logger, input usecase.RecordAuditInput) {
	if audit == nil {
		return
	}

	input.IPAddress = c.ClientIP()
	if agent := c.Request.UserAgent(); agent != "" {
		input.UserAgent = &agent
	}

	if err := audit.Record(c.Request.Context(), input); err != nil && logger != nil {
		logger.Warn("audit record failed",
			zap.String("entity", input.Entity),
			zap.String("entity_id", input.EntityID),
			zap.Error(err),
		)
	}
}

// auditActor resolves the authenticated user ID into an audit actor pointer.
func auditActor(c *gin.Context) *string {
	if id, ok := middleware.GetAuthenticatedUserID(c); ok && id != "" {
		return &id
	}
	return nil
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func parseTimeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
