package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// OrganizationHandler serves race-organizing clubs and their rosters.
type OrganizationHandler struct {
	organizations *usecase.OrganizationService
	audit         *usecase.AuditService
	logger        *zap.Logger
}

// NewOrganizationHandler builds a new organization handler instance.
func NewOrganizationHandler(organizations *usecase.OrganizationService, audit *usecase.AuditService, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, audit: audit, logger: logger}
}

// Create registers an organization; the owner becomes its first member.
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req OrganizationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid organization payload"))
		return
	}

	organization, err := h.organizations.CreateOrganization(c.Request.Context(), usecase.CreateOrganizationInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSlugTaken, Status: http.StatusConflict, Message: "organization slug already taken"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusBadRequest, Message: "owner not found"},
		}, http.StatusBadRequest, "failed to create organization")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "organization",
		EntityID: organization.ID,
		Action:   domain.AuditActionCreate,
		NewData:  map[string]any{"name": organization.Name, "slug": organization.Slug},
	})

	c.JSON(http.StatusCreated, newOrganizationPayload(*organization))
}

// Get returns a single organization by ID.
func (h *OrganizationHandler) Get(c *gin.Context) {
	organization, err := h.organizations.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to load organization")
		return
	}

	c.JSON(http.StatusOK, newOrganizationPayload(*organization))
}

// GetBySlug returns a single organization by URL slug.
func (h *OrganizationHandler) GetBySlug(c *gin.Context) {
	organization, err := h.organizations.GetOrganizationBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to load organization")
		return
	}

	c.JSON(http.StatusOK, newOrganizationPayload(*organization))
}

// List returns a filtered page of organizations.
func (h *OrganizationHandler) List(c *gin.Context) {
	organizations, total, err := h.organizations.ListOrganizations(c.Request.Context(), port.OrganizationFilter{
		Search: c.Query("search"),
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list organizations"))
		return
	}

	payload := make([]OrganizationPayload, 0, len(organizations))
	for _, organization := range organizations {
		payload = append(payload, newOrganizationPayload(organization))
	}

	c.JSON(http.StatusOK, OrganizationListResponse{Organizations: payload, Total: total})
}

// Update applies partial changes to an organization.
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req OrganizationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid organization payload"))
		return
	}

	organization, err := h.organizations.UpdateOrganization(c.Request.Context(), c.Param("id"), usecase.UpdateOrganizationInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to update organization")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "organization",
		EntityID: organization.ID,
		Action:   domain.AuditActionUpdate,
		NewData:  req,
	})

	c.JSON(http.StatusOK, newOrganizationPayload(*organization))
}

// Delete soft-removes an organization.
func (h *OrganizationHandler) Delete(c *gin.Context) {
	organizationID := c.Param("id")

	if err := h.organizations.DeleteOrganization(c.Request.Context(), organizationID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to delete organization")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "organization",
		EntityID: organizationID,
		Action:   domain.AuditActionDelete,
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "organization deleted"})
}

// AddMember registers a user into an organization's roster.
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	var req MemberAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid member payload"))
		return
	}

	member, err := h.organizations.AddMember(c.Request.Context(), c.Param("id"), usecase.AddMemberInput{
		UserID:   req.UserID,
		Role:     req.Role,
		Position: req.Position,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusBadRequest, Message: "user not found"},
			{Err: usecase.ErrInvalidOrgRole, Status: http.StatusBadRequest, Message: "invalid organization role"},
		}, http.StatusInternalServerError, "failed to add member")
		return
	}

	c.JSON(http.StatusCreated, newMemberPayload(*member))
}

// ListMembers returns the roster of an organization.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	members, err := h.organizations.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
		}, http.StatusInternalServerError, "failed to list members")
		return
	}

	payload := make([]MemberPayload, 0, len(members))
	for _, member := range members {
		payload = append(payload, newMemberPayload(member))
	}

	c.JSON(http.StatusOK, payload)
}

// UpdateMemberRole changes the role of a roster member.
func (h *OrganizationHandler) UpdateMemberRole(c *gin.Context) {
	var req MemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid member payload"))
		return
	}

	if err := h.organizations.UpdateMemberRole(c.Request.Context(), c.Param("memberId"), req.Role); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "member not found"},
			{Err: usecase.ErrInvalidOrgRole, Status: http.StatusBadRequest, Message: "invalid organization role"},
		}, http.StatusInternalServerError, "failed to update member")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "member role updated"})
}

// RemoveMember drops a member from the roster.
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	if err := h.organizations.RemoveMember(c.Request.Context(), c.Param("memberId")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMemberNotFound, Status: http.StatusNotFound, Message: "member not found"},
		}, http.StatusInternalServerError, "failed to remove member")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "member removed"})
}
