package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/pkg/response"
)

// GradeHandler serves the results view.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler creates a new handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// List godoc
// @Summary Grade list
// @Description Refresh and return the signed-in student's grades
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	grades, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}
