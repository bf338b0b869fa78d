package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/service"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
	"github.com/abbasia-institute/portal-api/pkg/response"
)

// ScheduleHandler serves the timetable and exams views.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Timetable godoc
// @Summary Weekly timetable
// @Description Lecture slots grouped by teaching day for the student's cohort
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedule/timetable [get]
func (h *ScheduleHandler) Timetable(c *gin.Context) {
	days, err := h.service.Timetable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days)
}

// Exams godoc
// @Summary Exam schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedule/exams [get]
func (h *ScheduleHandler) Exams(c *gin.Context) {
	exams, err := h.service.Exams(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"exams":     exams,
		"reminders": h.service.Reminders(),
	})
}

// ToggleReminder godoc
// @Summary Toggle an exam reminder
// @Description Flip the session-local reminder flag for a course
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body object true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule/exams/reminders [post]
func (h *ScheduleHandler) ToggleReminder(c *gin.Context) {
	var payload struct {
		Course string `json:"course" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "course required"))
		return
	}

	enabled := h.service.ToggleReminder(payload.Course)
	response.JSON(c, http.StatusOK, gin.H{"course": payload.Course, "enabled": enabled})
}
