package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type fakeStudentLookup struct {
	student *models.Student
	err     error
	calls   int
	lastID  string
}

func (f *fakeStudentLookup) FindByNationalID(_ context.Context, nationalID string) (*models.Student, error) {
	f.calls++
	f.lastID = nationalID
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

func newAuthService(repo *fakeStudentLookup) (*AuthService, *fakeStudentLookup) {
	svc := NewAuthService(repo, newTestSessionStore(), validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "portal-api",
	})
	return svc, repo
}

func TestLoginRejectsMalformedNationalIDWithoutLookup(t *testing.T) {
	cases := []string{
		"",
		"123",
		"3010101123456",    // 13 digits
		"301010112345678",  // 15 digits
		"3010101123456a",   // non-digit
		"٣٠١٠١٠١١٢٣٤٥٦٧",   // arabic-indic digits
		"30101011 234567",  // embedded space
	}

	for _, id := range cases {
		svc, repo := newAuthService(&fakeStudentLookup{})
		_, err := svc.Login(context.Background(), models.LoginRequest{NationalID: id})
		require.Error(t, err, "id %q", id)
		if id != "" {
			assert.True(t, appErrors.Is(err, appErrors.ErrInvalidNationalID), "id %q", id)
		}
		assert.Zero(t, repo.calls, "a malformed id must never reach the backend: %q", id)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &fakeStudentLookup{student: testStudent()}
	svc := NewAuthService(repo, newTestSessionStore(), validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "portal-api",
	})

	res, err := svc.Login(context.Background(), models.LoginRequest{NationalID: "30101011234567"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, "30101011234567", repo.lastID)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "stu-1", res.Student.ID)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.StudentID)
	assert.Equal(t, models.DepartmentAccounting, claims.Department)
}

func TestLoginUnknownIDIsGenericCredentialsError(t *testing.T) {
	svc, repo := newAuthService(&fakeStudentLookup{err: sql.ErrNoRows})

	_, err := svc.Login(context.Background(), models.LoginRequest{NationalID: "30101011234567"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	assert.Equal(t, 1, repo.calls)
}

func TestLoginBackendFailureIsConnectivityError(t *testing.T) {
	svc, _ := newAuthService(&fakeStudentLookup{err: errors.New("connection refused")})

	_, err := svc.Login(context.Background(), models.LoginRequest{NationalID: "30101011234567"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrBackendUnavailable))
	assert.False(t, appErrors.Is(err, appErrors.ErrInvalidCredentials),
		"a backend failure must not be reported as bad credentials")
}

func TestLoginInstallsSession(t *testing.T) {
	sessions := newTestSessionStore()
	svc := NewAuthService(&fakeStudentLookup{student: testStudent()}, sessions, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
	})

	_, err := svc.Login(context.Background(), models.LoginRequest{NationalID: "30101011234567"})
	require.NoError(t, err)

	current, ok := sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "stu-1", current.ID)

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, sessions.Authenticated())
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc, _ := newAuthService(&fakeStudentLookup{student: testStudent()})

	other := NewAuthService(&fakeStudentLookup{student: testStudent()}, newTestSessionStore(), validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "other-secret",
		TokenExpiry: time.Hour,
	})
	res, err := other.Login(context.Background(), models.LoginRequest{NationalID: "30101011234567"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
