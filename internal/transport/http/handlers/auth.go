package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appLogger "github.com/josesojo2828/Dgo-Byke-Server/internal/infra/logger"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// AuthHandler serves registration, login, and credential management.
type AuthHandler struct {
	auth      *usecase.AuthService
	dashboard *usecase.DashboardService
	audit     *usecase.AuditService
	logger    *zap.Logger
}

// NewAuthHandler builds a new auth handler instance.
func NewAuthHandler(auth *usecase.AuthService, dashboard *usecase.DashboardService, audit *usecase.AuditService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, dashboard: dashboard, audit: audit, logger: logger}
}

// Register creates a cyclist account with its riding profile.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
		}, http.StatusBadRequest, "registration failed")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  &user.ID,
		Entity:   "user",
		EntityID: user.ID,
		Action:   domain.AuditActionCreate,
		NewData:  map[string]any{"email": user.Email, "system_role": user.SystemRole},
	})

	c.JSON(http.StatusCreated, newUserSummary(*user))
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("login rejected",
				zap.String("email", appLogger.MaskEmail(req.Email)),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "account inactive"},
		}, http.StatusBadRequest, "login failed")
		return
	}

	recordAudit(c, h.audit, h.logger, usecase.RecordAuditInput{
		ActorID:  &result.User.ID,
		Entity:   "user",
		EntityID: result.User.ID,
		Action:   domain.AuditActionLogin,
	})

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		User:        newUserSummary(result.User),
		Permissions: result.Permissions,
		MenuPrefix:  result.MenuPrefix,
	})
}

// Me returns the authenticated session: user, permissions, and menu.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	summary, err := h.dashboard.SessionSummary(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load session")
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(*summary))
}

// IssueAPIToken mints a new opaque token, replacing any previous one.
func (h *AuthHandler) IssueAPIToken(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	token, err := h.auth.IssueAPIToken(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to issue api token"))
		return
	}

	if h.logger != nil {
		h.logger.Info("api token issued",
			zap.String("user_id", userID),
			zap.String("token", appLogger.MaskString(token)),
		)
	}

	c.JSON(http.StatusCreated, APITokenResponse{APIToken: token})
}

// RevokeAPIToken clears the caller's opaque token.
func (h *AuthHandler) RevokeAPIToken(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	if err := h.auth.RevokeAPIToken(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to revoke api token"))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "api token revoked"})
}

// ChangePassword rotates the caller's password after verifying the current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
		}, http.StatusBadRequest, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
