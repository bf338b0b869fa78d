package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type fakeMaterialRepo struct {
	materials []models.Material
	err       error
}

func (f *fakeMaterialRepo) ListForAudience(context.Context, models.Department, int) ([]models.Material, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.materials, nil
}

func strPtr(s string) *string { return &s }

func sampleMaterials() []models.Material {
	return []models.Material{
		{ID: "m1", Title: "مقدمة في المحاسبة المالية", Type: models.MaterialTypeLecture, URL: strPtr("https://files.example/m1.pdf")},
		{ID: "m2", Title: "كتاب مبادئ الإدارة", Type: models.MaterialTypeBook, URL: strPtr("https://files.example/m2.pdf")},
		{ID: "m3", Title: "تكليف Excel الأسبوعي", Type: models.MaterialTypeAssignment},
		{ID: "m4", Title: "فيديو شرح قوائم الدخل", Type: models.MaterialTypeVideo, URL: strPtr("https://files.example/m4.mp4")},
	}
}

func TestFilterMaterialsDefaultIsIdentity(t *testing.T) {
	items := sampleMaterials()

	assert.Equal(t, items, FilterMaterials(items, "", ""))
	assert.Equal(t, items, FilterMaterials(items, models.MaterialCategoryAll, ""))
	assert.Equal(t, items, FilterMaterials(items, models.MaterialCategoryAll, "   "))
}

func TestFilterMaterialsByCategory(t *testing.T) {
	items := sampleMaterials()

	lectures := FilterMaterials(items, "المحاضرات", "")
	require.Len(t, lectures, 1)
	assert.Equal(t, "m1", lectures[0].ID)

	books := FilterMaterials(items, "الكتب", "")
	require.Len(t, books, 1)
	assert.Equal(t, "m2", books[0].ID)
}

func TestFilterMaterialsSearchIsCaseInsensitive(t *testing.T) {
	items := sampleMaterials()

	hits := FilterMaterials(items, "", "excel")
	require.Len(t, hits, 1)
	assert.Equal(t, "m3", hits[0].ID)

	hits = FilterMaterials(items, "", "EXCEL")
	require.Len(t, hits, 1)
	assert.Equal(t, "m3", hits[0].ID)
}

func TestFilterMaterialsIntersection(t *testing.T) {
	items := sampleMaterials()

	// Category and search must both hold.
	assert.Empty(t, FilterMaterials(items, "الكتب", "excel"))

	hits := FilterMaterials(items, "التكليفات", "excel")
	require.Len(t, hits, 1)
	assert.Equal(t, "m3", hits[0].ID)
}

func TestFilterMaterialsUnknownCategory(t *testing.T) {
	assert.Empty(t, FilterMaterials(sampleMaterials(), "غير معروف", ""))
}

func TestMaterialLink(t *testing.T) {
	svc := NewMaterialService(&fakeMaterialRepo{materials: sampleMaterials()}, newTestSession(t, testStudent()), zap.NewNop(), nil)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	url, err := svc.Link("m1")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/m1.pdf", url)

	_, err = svc.Link("m3")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrLinkUnavailable), "a row with no url blocks the action")

	_, err = svc.Link("missing")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestMaterialRefreshKeepsHeldListOnFailure(t *testing.T) {
	repo := &fakeMaterialRepo{materials: sampleMaterials()}
	svc := NewMaterialService(repo, newTestSession(t, testStudent()), zap.NewNop(), nil)

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 4)

	repo.err = errors.New("backend down")
	held, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrBackendUnavailable))
	assert.Len(t, held, 4, "a failed fetch keeps the previous list")
}
