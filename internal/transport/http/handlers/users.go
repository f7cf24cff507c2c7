package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// UserHandler serves account and cyclist-profile management.
type UserHandler struct {
	users  *usecase.UserService
	audit  *usecase.AuditService
	logger *zap.Logger
}

// NewUserHandler builds a new user handler instance.
func NewUserHandler(users *usecase.UserService, audit *usecase.AuditService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, audit: audit, logger: logger}
}

// Create provisions an account with an explicit platform role.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), usecase.CreateUserInput{
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
		Phone:            req.Phone,
		SystemRole:       req.SystemRole,
		RoleIDs:          req.RoleIDs,
		OrganizationName: strings.TrimSpace(req.OrganizationName),
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
			{Err: usecase.ErrRoleNotFound, Status: http.StatusBadRequest, Message: "role not found"},
		}, http.StatusBadRequest, "failed to create user")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "user",
		EntityID: user.ID,
		Action:   domain.AuditActionCreate,
		NewData:  map[string]any{"email": user.Email, "system_role": user.SystemRole},
	})

	c.JSON(http.StatusCreated, newUserSummary(*user))
}

// Get returns a single user with its assigned roles.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, newUserSummary(*user))
}

// List returns a filtered page of users.
func (h *UserHandler) List(c *gin.Context) {
	filter := port.UserFilter{
		Search: c.Query("search"),
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}

	if role := c.Query("system_role"); role != "" {
		parsed := domain.SystemRole(role)
		filter.SystemRole = &parsed
	}
	if raw := c.Query("is_active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	users, total, err := h.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, newUserSummary(user))
	}

	c.JSON(http.StatusOK, UserListResponse{Users: summaries, Total: total})
}

// Update applies partial changes to an account.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user payload"))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), usecase.UpdateUserInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		IsActive:  req.IsActive,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to update user")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "user",
		EntityID: user.ID,
		Action:   domain.AuditActionUpdate,
		NewData:  req,
	})

	c.JSON(http.StatusOK, newUserSummary(*user))
}

// Deactivate soft-disables an account without deleting its history.
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID := c.Param("id")

	if err := h.users.DeactivateUser(c.Request.Context(), userID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to deactivate user")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  auditActor(c),
		Entity:   "user",
		EntityID: userID,
		Action:   domain.AuditActionDelete,
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "user deactivated"})
}

// GetProfile returns the caller's cyclist profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "cyclist profile not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(*profile))
}

// UpdateProfile applies partial changes to the caller's cyclist profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), userID, usecase.UpdateProfileInput{
		BirthDate:        req.BirthDate,
		BloodType:        req.BloodType,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "cyclist profile not found"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(*profile))
}
