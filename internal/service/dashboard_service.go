package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

const (
	announcementLimit    = 4
	announcementCacheKey = "portal:announcements:latest"
)

type announcementRepository interface {
	Latest(ctx context.Context, limit int) ([]models.Announcement, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string)
}

// ProgressPoint is one sample of the academic progress curve.
type ProgressPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DashboardStats are the headline figures shown above the fold.
type DashboardStats struct {
	GPA            float64 `json:"gpa"`
	AttendanceRate float64 `json:"attendance_rate"`
	TotalCredits   int     `json:"total_credits"`
	Level          int     `json:"level"`
	DepartmentName string  `json:"department_name"`
}

// DashboardOverview is the full landing-page payload.
type DashboardOverview struct {
	Greeting      string                `json:"greeting"`
	Stats         DashboardStats        `json:"stats"`
	Progress      []ProgressPoint       `json:"progress"`
	Announcements []models.Announcement `json:"announcements"`
}

// DashboardService assembles the landing page: headline stats from the
// session subject, the synthesized progress curve, and the latest global
// announcements behind a short read-through cache.
type DashboardService struct {
	announcements announcementRepository
	cache         dashboardCache
	sessions      *session.Store
	logger        *zap.Logger
	metrics       *MetricsService
	cacheTTL      time.Duration
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(announcements announcementRepository, cache dashboardCache, sessions *session.Store, logger *zap.Logger, metrics *MetricsService, cacheTTL time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		announcements: announcements,
		cache:         cache,
		sessions:      sessions,
		logger:        logger,
		metrics:       metrics,
		cacheTTL:      cacheTTL,
	}
}

// Overview builds the landing-page payload for the current session subject.
// An announcement fetch failure degrades to an empty board rather than
// failing the page; the stats and curve come from the session snapshot and
// never require a fetch.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	board, err := s.latestAnnouncements(ctx)
	if err != nil {
		s.logger.Warn("announcement fetch failed", zap.Error(err))
		board = nil
	}

	return &DashboardOverview{
		Greeting: "مرحباً بك، " + student.FirstName() + " 👋",
		Stats: DashboardStats{
			GPA:            student.GPA,
			AttendanceRate: student.AttendanceRate,
			TotalCredits:   student.TotalCredits,
			Level:          student.Level,
			DepartmentName: student.Department.DisplayName(),
		},
		Progress:      ProgressCurve(student.GPA),
		Announcements: board,
	}, nil
}

func (s *DashboardService) latestAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var cached []models.Announcement
	if err := s.cache.Get(ctx, announcementCacheKey, &cached); err == nil {
		s.metrics.RecordCacheOperation(true)
		return cached, nil
	}
	s.metrics.RecordCacheOperation(false)

	rows, err := s.announcements.Latest(ctx, announcementLimit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, announcementCacheKey, rows, s.cacheTTL); err != nil {
		s.logger.Debug("announcement cache write failed", zap.Error(err))
	}
	return rows, nil
}

// InvalidateAnnouncements drops the cached board.
func (s *DashboardService) InvalidateAnnouncements(ctx context.Context) {
	s.cache.Delete(ctx, announcementCacheKey)
}

// ProgressCurve synthesizes the four-point progress chart from the GPA alone.
// The early points are backdated offsets of the current standing, capped at
// 100, exactly as the portal has always drawn them.
func ProgressCurve(gpa float64) []ProgressPoint {
	current := gpa / 4 * 100
	return []ProgressPoint{
		{Label: "البداية", Value: 60},
		{Label: "الفرقة 1", Value: math.Min(100, current-10)},
		{Label: "الفرقة 2", Value: math.Min(100, current-5)},
		{Label: "الحالي", Value: current},
	}
}
