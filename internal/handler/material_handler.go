package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/pkg/response"
)

// MaterialHandler serves the library view.
type MaterialHandler struct {
	service *service.MaterialService
}

// NewMaterialHandler creates a new handler.
func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// List godoc
// @Summary Library materials
// @Description Materials for the student's cohort, narrowed by category label and search text
// @Tags Materials
// @Produce json
// @Param category query string false "Category label"
// @Param q query string false "Title search"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.service.List(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materials)
}

// Link godoc
// @Summary Resolve a material link
// @Description Return the resource URL for a held material; blocked when the row has none
// @Tags Materials
// @Produce json
// @Param id path string true "Material id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /materials/{id}/link [get]
func (h *MaterialHandler) Link(c *gin.Context) {
	url, err := h.service.Link(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"url": url})
}
