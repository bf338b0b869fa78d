package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

const nationalIDLength = 14

type authStudentRepository interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Student, error)
}

// AuthConfig defines configuration for the login flow.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService performs the identification check and owns token issuance.
// There is no password: the national id is the sole factor, mirrored into a
// read-only "password" field by the UI. This is identification, not
// secret-based authentication, and is reproduced deliberately.
type AuthService struct {
	repo      authStudentRepository
	sessions  *session.Store
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authStudentRepository, sessions *session.Store, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, sessions: sessions, validator: validate, logger: logger, config: config}
}

// Login validates the national id locally, performs exactly one equality
// lookup, and installs the matching record as the live session.
//
// Zero matches and backend failures are deliberately indistinguishable to the
// user apart from the credentials/connectivity split; only the logs carry the
// real cause.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	// Local validation first: a malformed id never reaches the backend.
	if !validNationalID(req.NationalID) {
		return nil, appErrors.Clone(appErrors.ErrInvalidNationalID, "")
	}

	student, err := s.repo.FindByNationalID(ctx, req.NationalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("login rejected: no matching student", zap.String("ip", req.IP))
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		s.logger.Error("login lookup failed", zap.Error(err), zap.String("ip", req.IP))
		return nil, appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	if err := s.sessions.Login(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open session")
	}

	token, issuedAt, err := s.generateAccessToken(student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("student signed in",
		zap.String("student_id", student.ID),
		zap.String("department", string(student.Department)),
		zap.Int("level", student.Level),
	)

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Student:     *student,
	}, nil
}

// Logout tears down the live session and its persisted snapshot.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Logout(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close session")
	}
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.PortalClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.PortalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.PortalClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) generateAccessToken(student *models.Student) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.PortalClaims{
		StudentID:  student.ID,
		FullName:   student.FullName,
		Department: student.Department,
		Level:      student.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   student.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func validNationalID(id string) bool {
	if len(id) != nationalIDLength {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
