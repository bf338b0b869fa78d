package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	"github.com/abbasia-institute/portal-api/internal/view"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type gradeRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error)
}

// GradeService owns the results view: the full grade list for the signed-in
// student, replaced wholesale on every successful fetch.
type GradeService struct {
	repo     gradeRepository
	sessions *session.Store
	logger   *zap.Logger
	metrics  *MetricsService
	state    view.State[string, []models.Grade]
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(repo gradeRepository, sessions *session.Store, logger *zap.Logger, metrics *MetricsService) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, sessions: sessions, logger: logger, metrics: metrics}
}

// Refresh fetches the grade list for the current session subject. On failure
// the previously held list stays in place and the error is surfaced; a result
// arriving for a superseded subject is discarded silently.
func (s *GradeService) Refresh(ctx context.Context) ([]models.Grade, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	ticket := s.state.Begin(student.ID)
	rows, err := s.repo.ListByStudent(ctx, student.ID)
	applied := s.state.Complete(ticket, rows, err)
	if !applied {
		s.metrics.RecordStaleFetchDrop()
		s.logger.Debug("grade fetch discarded: subject changed", zap.String("student_id", ticket))
		return s.state.Value(), nil
	}
	if err != nil {
		s.metrics.RecordViewRefresh("grades", "failed")
		s.logger.Warn("grade fetch failed", zap.Error(err), zap.String("student_id", student.ID))
		return s.state.Value(), appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	s.metrics.RecordViewRefresh("grades", "ok")
	return s.state.Value(), nil
}

// Current returns the held grade list without fetching.
func (s *GradeService) Current() []models.Grade {
	return s.state.Value()
}

// Reset drops the view. Called when the session ends.
func (s *GradeService) Reset() {
	s.state.Reset()
}
