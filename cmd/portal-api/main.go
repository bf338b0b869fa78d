package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/abbasia-institute/portal-api/api/swagger"
	"github.com/abbasia-institute/portal-api/internal/handler"
	"github.com/abbasia-institute/portal-api/internal/middleware"
	"github.com/abbasia-institute/portal-api/internal/repository"
	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/internal/session"
	"github.com/abbasia-institute/portal-api/pkg/ai"
	"github.com/abbasia-institute/portal-api/pkg/cache"
	"github.com/abbasia-institute/portal-api/pkg/config"
	"github.com/abbasia-institute/portal-api/pkg/database"
	"github.com/abbasia-institute/portal-api/pkg/logger"
	corsmiddleware "github.com/abbasia-institute/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/abbasia-institute/portal-api/pkg/middleware/requestid"
	"github.com/abbasia-institute/portal-api/pkg/storage"
)

// @title Abbasia Institute Portal API
// @version 0.1.0
// @description Session gateway for the student portal
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var snapshots session.SnapshotStore
	if cfg.Session.Backend == config.SessionBackendRedis && redisClient != nil {
		snapshots = session.NewRedisSnapshotStore(redisClient)
	} else {
		snapshots, err = session.NewFileSnapshotStore(cfg.Session.SnapshotPath)
		if err != nil {
			logr.Sugar().Fatalw("failed to init session snapshot store", "error", err)
		}
	}

	sessions := session.NewStore(snapshots, logr)

	ctx := context.Background()

	var assistantClient *ai.GeminiClient
	if cfg.Assistant.Enabled && cfg.Assistant.APIKey != "" {
		assistantClient, err = ai.NewGeminiClient(ctx, cfg.Assistant)
		if err != nil {
			logr.Sugar().Warnw("assistant disabled: client init failed", "error", err)
		} else {
			defer assistantClient.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	studentRepo := repository.NewStudentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(studentRepo, sessions, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "portal-api",
	})
	gradeSvc := service.NewGradeService(gradeRepo, sessions, logr, metricsSvc)
	scheduleSvc := service.NewScheduleService(scheduleRepo, sessions, logr, metricsSvc)
	materialSvc := service.NewMaterialService(materialRepo, sessions, logr, metricsSvc)
	financeSvc := service.NewFinanceService(financeRepo, sessions, logr, metricsSvc)
	dashboardSvc := service.NewDashboardService(announcementRepo, cacheRepo, sessions, logr, metricsSvc, cfg.Dashboard.CacheTTL)
	profileSvc := service.NewProfileService(studentRepo, sessions, validate, logr)

	var assistantSvc *service.AssistantService
	if assistantClient != nil {
		assistantSvc = service.NewAssistantService(assistantClient, sessions, logr, metricsSvc)
	} else {
		assistantSvc = service.NewAssistantService(nil, sessions, logr, metricsSvc)
	}

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc := service.NewReportService(gradeRepo, sessions, store, signer, cfg.Reports.PDFFontPath, logr)
		reportHandler = handler.NewReportHandler(reportSvc)

		// Sweep expired report files so the storage dir does not grow
		// unbounded.
		go func() {
			ticker := time.NewTicker(cfg.Reports.CleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				reportSvc.Cleanup(cfg.Reports.RetentionTTL)
			}
		}()
	}

	// Rehydrate the previous session, if a valid snapshot survives. A corrupt
	// snapshot is discarded and the portal starts signed out.
	if sessions.Restore(ctx) {
		if student, ok := sessions.Current(); ok {
			assistantSvc.Greet(student)
			logr.Sugar().Infow("session restored", "student_id", student.ID)
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/status", metricsHandler.Status)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router := &handler.Router{
		Auth: handler.NewAuthHandler(authSvc, assistantSvc, sessions,
			gradeSvc.Reset, scheduleSvc.Reset, materialSvc.Reset, financeSvc.Reset),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Grades:    handler.NewGradeHandler(gradeSvc),
		Schedule:  handler.NewScheduleHandler(scheduleSvc),
		Materials: handler.NewMaterialHandler(materialSvc),
		Finance:   handler.NewFinanceHandler(financeSvc),
		Profile:   handler.NewProfileHandler(profileSvc),
		Assistant: handler.NewAssistantHandler(assistantSvc),
		Reports:   reportHandler,
		Metrics:   metricsHandler,
	}
	router.Register(r, cfg.APIPrefix, authSvc, sessions)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
