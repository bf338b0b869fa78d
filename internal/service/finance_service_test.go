package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type fakeFinanceRepo struct {
	record *models.FinanceRecord
	err    error
}

func (f *fakeFinanceRepo) GetByStudent(context.Context, string) (*models.FinanceRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func TestFinanceSummaryDerivesRemaining(t *testing.T) {
	repo := &fakeFinanceRepo{record: &models.FinanceRecord{
		TotalFees:  1000,
		PaidAmount: 400,
		Status:     models.FinanceStatusPartial,
		DueDate:    "2026-10-01",
	}}
	svc := NewFinanceService(repo, newTestSession(t, testStudent()), zap.NewNop(), nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 600.0, summary.Remaining)
	assert.Equal(t, models.FinanceStatusPartial, summary.Status)
}

func TestFinanceSummaryOverpaymentGoesNegative(t *testing.T) {
	repo := &fakeFinanceRepo{record: &models.FinanceRecord{TotalFees: 1000, PaidAmount: 1200}}
	svc := NewFinanceService(repo, newTestSession(t, testStudent()), zap.NewNop(), nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -200.0, summary.Remaining, "the remainder is not clamped at zero")
}

func TestFinanceSummaryNoRecord(t *testing.T) {
	svc := NewFinanceService(&fakeFinanceRepo{err: sql.ErrNoRows}, newTestSession(t, testStudent()), zap.NewNop(), nil)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestFinanceSummaryKeepsHeldRecordOnFailure(t *testing.T) {
	repo := &fakeFinanceRepo{record: &models.FinanceRecord{TotalFees: 1000, PaidAmount: 400}}
	svc := NewFinanceService(repo, newTestSession(t, testStudent()), zap.NewNop(), nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	repo.err = errors.New("backend down")
	held, err := svc.Summary(context.Background())
	require.Error(t, err)
	require.NotNil(t, held)
	assert.Equal(t, 600.0, held.Remaining)
}

func TestFinanceSummaryUnauthenticated(t *testing.T) {
	svc := NewFinanceService(&fakeFinanceRepo{}, newTestSessionStore(), zap.NewNop(), nil)

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
