package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "repairdesk/internal/errors"
	"repairdesk/internal/middleware"
	"repairdesk/internal/services"
)

// SessionHandler exchanges the admin password for a short-lived session token.
type SessionHandler struct {
	adminAuth    *middleware.AdminAuth
	auditService services.AuditServicer
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(adminAuth *middleware.AdminAuth, auditService services.AuditServicer) *SessionHandler {
	return &SessionHandler{adminAuth: adminAuth, auditService: auditService}
}

// SessionRequest represents the request payload for opening an admin session.
type SessionRequest struct {
	Password string `json:"password" binding:"required"`
}

// SessionResponse carries a bearer token for the admin API.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateSession handles admin login.
// @Summary     Open an admin session
// @Tags        admin-session
// @Accept      json
// @Produce     json
// @Param       request body SessionRequest true "Admin password"
// @Success     200 {object} SessionResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Wrong password"
// @Failure     503 {object} ErrorResponse "Admin access is not configured"
// @Router      /admin/session [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	if !h.adminAuth.Configured() {
		respondWithError(c, apperrors.ErrAdminNotConfigured)
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if !h.adminAuth.CheckPassword(req.Password) {
		h.auditService.Log("anonymous", "ADMIN_LOGIN_FAILED", "session", "", c.ClientIP(), nil)
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	token, expiresAt, err := h.adminAuth.IssueToken()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(middleware.ActorSharedSecret, "ADMIN_LOGIN", "session", "", c.ClientIP(),
		map[string]any{"expires_at": expiresAt})

	c.JSON(http.StatusOK, SessionResponse{Token: token, ExpiresAt: expiresAt})
}
