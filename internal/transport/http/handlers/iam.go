package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// IAMHandler serves role administration and user role assignment.
type IAMHandler struct {
	iam    *usecase.IAMService
	audit  *usecase.AuditService
	logger *zap.Logger
}

// NewIAMHandler builds a new IAM handler instance.
func NewIAMHandler(iam *usecase.IAMService, audit *usecase.AuditService, logger *zap.Logger) *IAMHandler {
	return &IAMHandler{iam: iam, audit: audit, logger: logger}
}

// ListRoles returns every role with its granted actions.
func (h *IAMHandler) ListRoles(c *gin.Context) {
	roles, err := h.iam.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	payload := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payload = append(payload, newRolePayload(role))
	}

	c.JSON(http.StatusOK, payload)
}

// GetRole returns a single role.
func (h *IAMHandler) GetRole(c *gin.Context) {
	role, err := h.iam.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to load role")
		return
	}

	c.JSON(http.StatusOK, newRolePayload(*role))
}

// CreateRole creates a role, optionally seeding catalog permissions.
func (h *IAMHandler) CreateRole(c *gin.Context) {
	var req RoleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.iam.CreateRole(c.Request.Context(), usecase.CreateRoleInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "role already exists"},
			{Err: usecase.ErrUnknownPermission, Status: http.StatusBadRequest, Message: "unknown permission action"},
		}, http.StatusInternalServerError, "failed to create role")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "role",
		EntityID: role.ID,
		Action:   domain.AuditActionCreate,
		NewData:  map[string]any{"name": role.Name, "permissions": req.Permissions},
	})

	c.JSON(http.StatusCreated, newRolePayload(*role))
}

// UpdateRole renames or redescribes a role.
func (h *IAMHandler) UpdateRole(c *gin.Context) {
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role, err := h.iam.UpdateRole(c.Request.Context(), c.Param("id"), usecase.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "role name already taken"},
		}, http.StatusInternalServerError, "failed to update role")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "role",
		EntityID: role.ID,
		Action:   domain.AuditActionUpdate,
		NewData:  req,
	})

	c.JSON(http.StatusOK, newRolePayload(*role))
}

// DeleteRole removes a role and its grants.
func (h *IAMHandler) DeleteRole(c *gin.Context) {
	roleID := c.Param("id")

	if err := h.iam.DeleteRole(c.Request.Context(), roleID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to delete role")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "role",
		EntityID: roleID,
		Action:   domain.AuditActionDelete,
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "role deleted"})
}

// ListPermissions returns the permission catalog.
func (h *IAMHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.iam.ListPermissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list permissions"))
		return
	}

	payload := make([]PermissionPayload, 0, len(permissions))
	for _, permission := range permissions {
		payload = append(payload, newPermissionPayload(permission))
	}

	c.JSON(http.StatusOK, payload)
}

// GrantPermissions adds catalog actions to a role.
func (h *IAMHandler) GrantPermissions(c *gin.Context) {
	var req RolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permissions payload"))
		return
	}

	roleID := c.Param("id")
	if err := h.iam.GrantPermissions(c.Request.Context(), roleID, req.Permissions); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrUnknownPermission, Status: http.StatusBadRequest, Message: "unknown permission action"},
		}, http.StatusInternalServerError, "failed to grant permissions")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "role",
		EntityID: roleID,
		Action:   domain.AuditActionUpdate,
		NewData:  map[string]any{"granted": req.Permissions},
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "permissions granted"})
}

// RevokePermissions removes catalog actions from a role.
func (h *IAMHandler) RevokePermissions(c *gin.Context) {
	var req RolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid permissions payload"))
		return
	}

	roleID := c.Param("id")
	if err := h.iam.RevokePermissions(c.Request.Context(), roleID, req.Permissions); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
			{Err: usecase.ErrUnknownPermission, Status: http.StatusBadRequest, Message: "unknown permission action"},
		}, http.StatusInternalServerError, "failed to revoke permissions")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "role",
		EntityID: roleID,
		Action:   domain.AuditActionUpdate,
		NewData:  map[string]any{"revoked": req.Permissions},
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "permissions revoked"})
}

// AssignUserRoles attaches roles to a user.
func (h *IAMHandler) AssignUserRoles(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid roles payload"))
		return
	}

	userID := c.Param("id")
	if err := h.iam.AssignUserRoles(c.Request.Context(), actorID, userID, req.RoleIDs); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrRoleNotFound, Status: http.StatusBadRequest, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to assign roles")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  &actorID,
		Entity:   "user",
		EntityID: userID,
		Action:   domain.AuditActionUpdate,
		NewData:  map[string]any{"roles_assigned": req.RoleIDs},
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "roles assigned"})
}

// RevokeUserRoles detaches roles from a user.
func (h *IAMHandler) RevokeUserRoles(c *gin.Context) {
	actorID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid roles payload"))
		return
	}

	userID := c.Param("id")
	if err := h.iam.RevokeUserRoles(c.Request.Context(), actorID, userID, req.RoleIDs); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
			{Err: usecase.ErrRoleNotFound, Status: http.StatusBadRequest, Message: "role not found"},
		}, http.StatusInternalServerError, "failed to revoke roles")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  &actorID,
		Entity:   "user",
		EntityID: userID,
		Action:   domain.AuditActionUpdate,
		NewData:  map[string]any{"roles_revoked": req.RoleIDs},
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "roles revoked"})
}

// UserRoles returns the roles assigned to a user.
func (h *IAMHandler) UserRoles(c *gin.Context) {
	roles, err := h.iam.UserRoles(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user roles")
		return
	}

	payload := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payload = append(payload, newRolePayload(role))
	}

	c.JSON(http.StatusOK, payload)
}

// UserPermissions returns the flattened permission set of a user.
func (h *IAMHandler) UserPermissions(c *gin.Context) {
	permissions, err := h.iam.UserPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user permissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}
