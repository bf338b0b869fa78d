package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
)

type profileStudentRepository interface {
	UpdateFullName(ctx context.Context, id, fullName string) (*models.Student, error)
}

// UpdateProfileRequest carries the editable profile fields. Email is accepted
// and validated but is deliberately never written to the backend; only the
// full name leaves the process. Removing this asymmetry is a behavior change.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// ProfileView is the profile page payload, with the national id masked.
type ProfileView struct {
	models.Student
	MaskedNationalID string `json:"masked_national_id"`
	DepartmentName   string `json:"department_name"`
}

// ProfileService exposes the profile page and the name edit.
type ProfileService struct {
	repo      profileStudentRepository
	sessions  *session.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(repo profileStudentRepository, sessions *session.Store, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{repo: repo, sessions: sessions, validator: validate, logger: logger}
}

// View returns the profile payload for the session subject.
func (s *ProfileService) View() (*ProfileView, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	return newProfileView(student), nil
}

// Update writes the new full name through to the backend and installs the
// returned row as the session subject. The email field, if present, is
// dropped here.
func (s *ProfileService) Update(ctx context.Context, req UpdateProfileRequest) (*ProfileView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}

	updated, err := s.repo.UpdateFullName(ctx, student.ID, req.FullName)
	if err != nil {
		s.logger.Error("profile update failed", zap.Error(err), zap.String("student_id", student.ID))
		return nil, appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	if err := s.sessions.Update(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh session")
	}

	s.logger.Info("profile updated", zap.String("student_id", student.ID))
	return newProfileView(*updated), nil
}

func newProfileView(student models.Student) *ProfileView {
	return &ProfileView{
		Student:          student,
		MaskedNationalID: student.MaskedNationalID(),
		DepartmentName:   student.Department.DisplayName(),
	}
}
