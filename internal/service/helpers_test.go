package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
)

type memorySnapshot struct {
	student *models.Student
	saves   int
	clears  int
}

func (m *memorySnapshot) Save(_ context.Context, student *models.Student) error {
	copied := *student
	m.student = &copied
	m.saves++
	return nil
}

func (m *memorySnapshot) Load(_ context.Context) (*models.Student, error) {
	if m.student == nil {
		return nil, session.ErrNoSnapshot
	}
	copied := *m.student
	return &copied, nil
}

func (m *memorySnapshot) Clear(_ context.Context) error {
	m.student = nil
	m.clears++
	return nil
}

func testStudent() *models.Student {
	return &models.Student{
		ID:             "stu-1",
		NationalID:     "30101011234567",
		FullName:       "أحمد محمد علي",
		Department:     models.DepartmentAccounting,
		Level:          2,
		GPA:            3.2,
		AttendanceRate: 92.5,
		TotalCredits:   84,
	}
}

func newTestSessionStore() *session.Store {
	return session.NewStore(&memorySnapshot{}, zap.NewNop())
}

func newTestSession(t *testing.T, student *models.Student) *session.Store {
	t.Helper()
	store := newTestSessionStore()
	if student != nil {
		require.NoError(t, store.Login(context.Background(), student))
	}
	return store
}
