package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	"github.com/abbasia-institute/portal-api/internal/view"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type materialRepository interface {
	ListForAudience(ctx context.Context, department models.Department, level int) ([]models.Material, error)
}

// MaterialService owns the library view. Fetches bring the full audience list;
// category and search narrowing happen locally over the held list.
type MaterialService struct {
	repo     materialRepository
	sessions *session.Store
	logger   *zap.Logger
	metrics  *MetricsService
	state    view.State[view.AudienceKey, []models.Material]
}

// NewMaterialService constructs a MaterialService instance.
func NewMaterialService(repo materialRepository, sessions *session.Store, logger *zap.Logger, metrics *MetricsService) *MaterialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, sessions: sessions, logger: logger, metrics: metrics}
}

// Refresh fetches the material list for the session subject's cohort.
func (s *MaterialService) Refresh(ctx context.Context) ([]models.Material, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	key := view.AudienceKey{Department: string(student.Department), Level: student.Level}
	ticket := s.state.Begin(key)
	rows, err := s.repo.ListForAudience(ctx, student.Department, student.Level)
	applied := s.state.Complete(ticket, rows, err)
	if !applied {
		s.metrics.RecordStaleFetchDrop()
		return s.state.Value(), nil
	}
	if err != nil {
		s.metrics.RecordViewRefresh("materials", "failed")
		s.logger.Warn("material fetch failed", zap.Error(err), zap.String("department", string(student.Department)), zap.Int("level", student.Level))
		return s.state.Value(), appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	s.metrics.RecordViewRefresh("materials", "ok")
	return s.state.Value(), nil
}

// List refreshes the view and returns it narrowed by category label and
// search text. A failed fetch still narrows whatever the view holds.
func (s *MaterialService) List(ctx context.Context, category, search string) ([]models.Material, error) {
	rows, err := s.Refresh(ctx)
	return FilterMaterials(rows, category, search), err
}

// Link resolves the resource URL for a held material. The check runs against
// the view, without a fetch: a row with no URL blocks the action outright.
func (s *MaterialService) Link(id string) (string, error) {
	for _, m := range s.state.Value() {
		if m.ID != id {
			continue
		}
		if m.URL == nil || *m.URL == "" {
			return "", appErrors.Clone(appErrors.ErrLinkUnavailable, "")
		}
		return *m.URL, nil
	}
	return "", appErrors.Clone(appErrors.ErrNotFound, "")
}

// Reset drops the view. Called when the session ends.
func (s *MaterialService) Reset() {
	s.state.Reset()
}

// FilterMaterials narrows a material list to the intersection of a category
// label and a case-insensitive title substring. The catch-all label and an
// empty search both pass everything, so the default filter is the identity.
func FilterMaterials(items []models.Material, category, search string) []models.Material {
	wantType, narrowType := "", false
	if category != "" && category != models.MaterialCategoryAll {
		wantType, narrowType = models.MaterialCategories[category], true
	}
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]models.Material, 0, len(items))
	for _, m := range items {
		if narrowType && m.Type != wantType {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(m.Title), needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}
