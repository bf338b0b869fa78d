package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	"github.com/abbasia-institute/portal-api/internal/view"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type financeRepository interface {
	GetByStudent(ctx context.Context, studentID string) (*models.FinanceRecord, error)
}

// FinanceSummary is the fees card payload. Remaining is derived on the way
// out and never stored.
type FinanceSummary struct {
	models.FinanceRecord
	Remaining float64 `json:"remaining"`
}

// FinanceService owns the fees view for the signed-in student.
type FinanceService struct {
	repo     financeRepository
	sessions *session.Store
	logger   *zap.Logger
	metrics  *MetricsService
	state    view.State[string, *models.FinanceRecord]
}

// NewFinanceService constructs a FinanceService instance.
func NewFinanceService(repo financeRepository, sessions *session.Store, logger *zap.Logger, metrics *MetricsService) *FinanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{repo: repo, sessions: sessions, logger: logger, metrics: metrics}
}

// Summary fetches the student's fees row and returns it with the derived
// remainder. A student with no fees row gets a not-found, not a zero row.
func (s *FinanceService) Summary(ctx context.Context) (*FinanceSummary, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	ticket := s.state.Begin(student.ID)
	record, err := s.repo.GetByStudent(ctx, student.ID)
	applied := s.state.Complete(ticket, record, err)
	if !applied {
		s.metrics.RecordStaleFetchDrop()
		return summarize(s.state.Value()), nil
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no fees record")
		}
		s.metrics.RecordViewRefresh("finance", "failed")
		s.logger.Warn("finance fetch failed", zap.Error(err), zap.String("student_id", student.ID))
		return summarize(s.state.Value()), appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	s.metrics.RecordViewRefresh("finance", "ok")
	return summarize(s.state.Value()), nil
}

// Reset drops the view. Called when the session ends.
func (s *FinanceService) Reset() {
	s.state.Reset()
}

func summarize(record *models.FinanceRecord) *FinanceSummary {
	if record == nil {
		return nil
	}
	return &FinanceSummary{FinanceRecord: *record, Remaining: record.Remaining()}
}
