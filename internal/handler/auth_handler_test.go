package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/middleware"
	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/service"
	"github.com/abbasia-institute/portal-api/internal/session"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
}

type fakeLoginRepo struct {
	student *models.Student
	err     error
}

func (f *fakeLoginRepo) FindByNationalID(context.Context, string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

type memorySnapshot struct {
	student *models.Student
}

func (m *memorySnapshot) Save(_ context.Context, s *models.Student) error {
	copied := *s
	m.student = &copied
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
	return nil
}

func portalStudent() *models.Student {
	return &models.Student{
		ID:         "stu-1",
		NationalID: "30101011234567",
		FullName:   "أحمد محمد علي",
		Department: models.DepartmentBIS,
		Level:      2,
		GPA:        3.0,
	}
}

func newAuthFixture(repo *fakeLoginRepo) (*AuthHandler, *session.Store, *service.AssistantService) {
	sessions := session.NewStore(&memorySnapshot{}, zap.NewNop())
	authSvc := service.NewAuthService(repo, sessions, validator.New(), zap.NewNop(), service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
	})
	assistantSvc := service.NewAssistantService(nil, sessions, zap.NewNop(), nil)
	return NewAuthHandler(authSvc, assistantSvc, sessions), sessions, assistantSvc
}

func loginRequest(body string) (*httptest.ResponseRecorder, *gin.Context) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, sessions, assistant := newAuthFixture(&fakeLoginRepo{student: portalStudent()})

	rec, c := loginRequest(`{"national_id":"30101011234567"}`)
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var res models.LoginResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &res))
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "stu-1", res.Student.ID)

	assert.True(t, sessions.Authenticated())

	// Login seeds the chat with a personal greeting.
	transcript := assistant.Transcript()
	require.Len(t, transcript, 1)
	assert.Contains(t, transcript[0].Text, "أحمد")
}

func TestAuthHandlerLoginMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, sessions, _ := newAuthFixture(&fakeLoginRepo{student: portalStudent()})

	rec, c := loginRequest(`{"national_id":"123"}`)
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, sessions.Authenticated())
}

func TestAuthHandlerLoginUnknownID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, _, _ := newAuthFixture(&fakeLoginRepo{err: sql.ErrNoRows})

	rec, c := loginRequest(`{"national_id":"30101011234567"}`)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error["code"])
}

func TestAuthHandlerLogoutResetsEverything(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resets := 0
	sessions := session.NewStore(&memorySnapshot{}, zap.NewNop())
	authSvc := service.NewAuthService(&fakeLoginRepo{student: portalStudent()}, sessions, validator.New(), zap.NewNop(), service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
	})
	assistantSvc := service.NewAssistantService(nil, sessions, zap.NewNop(), nil)
	h := NewAuthHandler(authSvc, assistantSvc, sessions, func() { resets++ }, func() { resets++ })

	rec, c := loginRequest(`{"national_id":"30101011234567"}`)
	h.Login(c)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, sessions.Authenticated())
	assert.Equal(t, 2, resets, "every registered page reset runs on logout")
	assert.Empty(t, assistantSvc.Transcript())
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, sessions, _ := newAuthFixture(&fakeLoginRepo{student: portalStudent()})
	require.NoError(t, sessions.Login(context.Background(), portalStudent()))

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextStudentKey, &models.PortalClaims{
		StudentID:        "stu-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiry)},
	})
	h.Me(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var payload struct {
		Student        models.Student `json:"student"`
		TokenExpiresAt time.Time      `json:"token_expires_at"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, "stu-1", payload.Student.ID)
	assert.True(t, payload.TokenExpiresAt.Equal(expiry))
}
