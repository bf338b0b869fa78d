package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/service"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
	"github.com/abbasia-institute/portal-api/pkg/response"
)

// AssistantHandler serves the chat assistant.
type AssistantHandler struct {
	service *service.AssistantService
}

// NewAssistantHandler creates a new handler.
func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// Send godoc
// @Summary Send a chat message
// @Description Run one chat turn and return the updated transcript
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body object true "Message payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assistant/messages [post]
func (h *AssistantHandler) Send(c *gin.Context) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		response.Error(c, appErrors.ErrEmptyPrompt)
		return
	}

	transcript, err := h.service.Send(c.Request.Context(), payload.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript)
}

// Transcript godoc
// @Summary Chat transcript
// @Tags Assistant
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assistant/messages [get]
func (h *AssistantHandler) Transcript(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Transcript())
}

// Clear godoc
// @Summary Clear the chat
// @Description Reset the transcript to a fresh greeting
// @Tags Assistant
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /assistant/messages [delete]
func (h *AssistantHandler) Clear(c *gin.Context) {
	transcript, err := h.service.Clear()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript)
}
