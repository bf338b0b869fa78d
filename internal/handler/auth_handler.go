package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/internal/session"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
	"github.com/abbasia-institute/portal-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service   *service.AuthService
	assistant *service.AssistantService
	sessions  *session.Store
	onLogout  []func()
}

// NewAuthHandler creates a new handler. onLogout hooks run after a session is
// torn down; page services register their Reset there.
func NewAuthHandler(svc *service.AuthService, assistant *service.AssistantService, sessions *session.Store, onLogout ...func()) *AuthHandler {
	return &AuthHandler{service: svc, assistant: assistant, sessions: sessions, onLogout: onLogout}
}

// Login godoc
// @Summary Sign in with national id
// @Description Identify a student by the 14-digit national id and open the session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.assistant != nil {
		h.assistant.Greet(res.Student)
	}

	response.JSON(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Sign out
// @Description Close the session and drop every held page view
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	if h.assistant != nil {
		h.assistant.Reset()
	}
	for _, reset := range h.onLogout {
		reset()
	}

	response.NoContent(c)
}

// Me godoc
// @Summary Current session subject
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	student, ok := h.sessions.Current()
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload := gin.H{"student": student}
	if claims := claimsFromContext(c); claims != nil && claims.ExpiresAt != nil {
		payload["token_expires_at"] = claims.ExpiresAt.Time
	}
	response.JSON(c, http.StatusOK, payload)
}
