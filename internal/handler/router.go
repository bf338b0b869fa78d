package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbasia-institute/portal-api/internal/middleware"
	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/internal/session"
)

// Router groups every portal handler for route registration.
type Router struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Grades    *GradeHandler
	Schedule  *ScheduleHandler
	Materials *MaterialHandler
	Finance   *FinanceHandler
	Profile   *ProfileHandler
	Assistant *AssistantHandler
	Reports   *ReportHandler
	Metrics   *MetricsHandler
}

// Register mounts all routes under the given prefix. Everything beyond login
// sits behind the session guard; report downloads are covered by their signed
// token instead.
func (rt *Router) Register(r *gin.Engine, prefix string, authService *service.AuthService, sessions *session.Store) {
	api := r.Group(prefix)

	api.POST("/auth/login", rt.Auth.Login)

	guarded := api.Group("")
	guarded.Use(middleware.Session(authService, sessions))
	{
		guarded.POST("/auth/logout", rt.Auth.Logout)
		guarded.GET("/auth/me", rt.Auth.Me)

		guarded.GET("/dashboard", rt.Dashboard.Overview)
		guarded.GET("/grades", rt.Grades.List)

		guarded.GET("/schedule/timetable", rt.Schedule.Timetable)
		guarded.GET("/schedule/exams", rt.Schedule.Exams)
		guarded.POST("/schedule/exams/reminders", rt.Schedule.ToggleReminder)

		guarded.GET("/materials", rt.Materials.List)
		guarded.GET("/materials/:id/link", rt.Materials.Link)

		guarded.GET("/finance", rt.Finance.Summary)

		guarded.GET("/profile", rt.Profile.View)
		guarded.PUT("/profile", rt.Profile.Update)

		guarded.GET("/assistant/messages", rt.Assistant.Transcript)
		guarded.POST("/assistant/messages", rt.Assistant.Send)
		guarded.DELETE("/assistant/messages", rt.Assistant.Clear)

		if rt.Reports != nil {
			guarded.POST("/reports/grades", rt.Reports.Generate)
		}
	}

	if rt.Reports != nil {
		api.GET("/reports/download", rt.Reports.Download)
	}
}
