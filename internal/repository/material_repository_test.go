package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abbasia-institute/portal-api/internal/models"
)

func TestMaterialRepositoryListForAudience(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMaterialRepository(db)
	rows := sqlmock.NewRows([]string{"id", "title", "type", "format", "size", "date", "url"}).
		AddRow("m1", "مقدمة في المحاسبة", "lecture", "pdf", "2.4 MB", "2026-02-10", "https://files.example/m1.pdf").
		AddRow("m2", "تكليف الأسبوع", "assignment", "docx", "80 KB", "2026-02-12", nil)
	mock.ExpectQuery(regexp.QuoteMeta("(department = $1 OR department IS NULL) AND (level = $2 OR level IS NULL)")).
		WithArgs(models.DepartmentBIS, 2).
		WillReturnRows(rows)

	materials, err := repo.ListForAudience(context.Background(), models.DepartmentBIS, 2)
	require.NoError(t, err)
	require.Len(t, materials, 2)
	assert.Equal(t, "m1", materials[0].ID)
	require.NotNil(t, materials[0].URL)
	assert.Nil(t, materials[1].URL, "a row without a url surfaces as a nil link")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryLatest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnnouncementRepository(db)
	rows := sqlmock.NewRows([]string{"id", "title", "content", "type", "created_at"}).
		AddRow("a1", "بدء التسجيل", "التفاصيل", "news", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT $1")).
		WithArgs(4).
		WillReturnRows(rows)

	// A non-positive limit falls back to the board's default of four.
	announcements, err := repo.Latest(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, announcements, 1)
	assert.Equal(t, "بدء التسجيل", announcements[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
