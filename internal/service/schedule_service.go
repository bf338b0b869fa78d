package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	"github.com/abbasia-institute/portal-api/internal/view"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type scheduleRepository interface {
	ListLectures(ctx context.Context, department models.Department, level int) ([]models.ScheduleItem, error)
	ListExams(ctx context.Context, department models.Department, level int) ([]models.ExamItem, error)
}

// ScheduleService owns the timetable and exams views, both scoped by the
// session subject's (department, level) cohort, plus the per-session exam
// reminder toggles.
type ScheduleService struct {
	repo     scheduleRepository
	sessions *session.Store
	logger   *zap.Logger
	metrics  *MetricsService

	lectures view.State[view.AudienceKey, []models.ScheduleItem]
	exams    view.State[view.AudienceKey, []models.ExamItem]

	mu        sync.Mutex
	reminders map[string]bool
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(repo scheduleRepository, sessions *session.Store, logger *zap.Logger, metrics *MetricsService) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      repo,
		sessions:  sessions,
		logger:    logger,
		metrics:   metrics,
		reminders: make(map[string]bool),
	}
}

// Timetable fetches the cohort's lecture slots and groups them by teaching
// day. Every weekday appears in the result, empty days included.
func (s *ScheduleService) Timetable(ctx context.Context) ([]models.DaySchedule, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	key := view.AudienceKey{Department: string(student.Department), Level: student.Level}
	ticket := s.lectures.Begin(key)
	rows, err := s.repo.ListLectures(ctx, student.Department, student.Level)
	applied := s.lectures.Complete(ticket, rows, err)
	if !applied {
		s.metrics.RecordStaleFetchDrop()
		return groupByDay(s.lectures.Value()), nil
	}
	if err != nil {
		s.metrics.RecordViewRefresh("timetable", "failed")
		s.logger.Warn("lecture fetch failed", zap.Error(err), zap.String("department", string(student.Department)), zap.Int("level", student.Level))
		return groupByDay(s.lectures.Value()), appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	s.metrics.RecordViewRefresh("timetable", "ok")
	return groupByDay(s.lectures.Value()), nil
}

// Exams fetches the cohort's exam slots.
func (s *ScheduleService) Exams(ctx context.Context) ([]models.ExamItem, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	key := view.AudienceKey{Department: string(student.Department), Level: student.Level}
	ticket := s.exams.Begin(key)
	rows, err := s.repo.ListExams(ctx, student.Department, student.Level)
	applied := s.exams.Complete(ticket, rows, err)
	if !applied {
		s.metrics.RecordStaleFetchDrop()
		return s.exams.Value(), nil
	}
	if err != nil {
		s.metrics.RecordViewRefresh("exams", "failed")
		s.logger.Warn("exam fetch failed", zap.Error(err), zap.String("department", string(student.Department)), zap.Int("level", student.Level))
		return s.exams.Value(), appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	s.metrics.RecordViewRefresh("exams", "ok")
	return s.exams.Value(), nil
}

// ToggleReminder flips the reminder flag for an exam's course and returns the
// new state. Reminders live only for the session; nothing is scheduled.
func (s *ScheduleService) ToggleReminder(course string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[course] = !s.reminders[course]
	return s.reminders[course]
}

// Reminders returns a copy of the active reminder flags.
func (s *ScheduleService) Reminders() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.reminders))
	for k, v := range s.reminders {
		out[k] = v
	}
	return out
}

// Reset drops both views and the reminder flags. Called when the session ends.
func (s *ScheduleService) Reset() {
	s.lectures.Reset()
	s.exams.Reset()
	s.mu.Lock()
	s.reminders = make(map[string]bool)
	s.mu.Unlock()
}

func groupByDay(items []models.ScheduleItem) []models.DaySchedule {
	byDay := make(map[string][]models.ScheduleItem, len(models.Weekdays))
	for _, item := range items {
		byDay[item.Day] = append(byDay[item.Day], item)
	}

	out := make([]models.DaySchedule, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		out = append(out, models.DaySchedule{Day: day, Lectures: byDay[day]})
	}
	return out
}
