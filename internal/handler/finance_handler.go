package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/pkg/response"
)

// FinanceHandler serves the fees view.
type FinanceHandler struct {
	service *service.FinanceService
}

// NewFinanceHandler creates a new handler.
func NewFinanceHandler(svc *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: svc}
}

// Summary godoc
// @Summary Fees summary
// @Description The student's fees row with the derived remainder
// @Tags Finance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /finance [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
