package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abbasia-institute/portal-api/internal/models"
	"github.com/abbasia-institute/portal-api/internal/session"
	appErrors "github.com/abbasia-institute/portal-api/pkg/errors"
	"github.com/abbasia-institute/portal-api/pkg/export"
	"github.com/abbasia-institute/portal-api/pkg/storage"
)

// Report formats.
const (
	ReportFormatPDF = "pdf"
	ReportFormatCSV = "csv"
)

// GradeReport describes a rendered grade sheet and its one-time download
// token.
type GradeReport struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportService renders the signed-in student's grade sheet to PDF or CSV,
// parks the file in local storage, and hands out a signed download token.
type ReportService struct {
	grades   gradeRepository
	sessions *session.Store
	storage  *storage.LocalStorage
	signer   *storage.SignedURLSigner
	pdf      *export.PDFExporter
	csv      *export.CSVExporter
	logger   *zap.Logger
}

// NewReportService constructs a ReportService instance. pdfFont names the
// TTF used for the Arabic grade sheet; without it PDF export is refused.
func NewReportService(grades gradeRepository, sessions *session.Store, store *storage.LocalStorage, signer *storage.SignedURLSigner, pdfFont string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		grades:   grades,
		sessions: sessions,
		storage:  store,
		signer:   signer,
		pdf:      export.NewPDFExporter(pdfFont),
		csv:      export.NewCSVExporter(),
		logger:   logger,
	}
}

// Generate renders the grade sheet in the requested format and returns the
// signed download token.
func (s *ReportService) Generate(ctx context.Context, format string) (*GradeReport, error) {
	student, ok := s.sessions.Current()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if format != ReportFormatPDF && format != ReportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	if format == ReportFormatPDF && !s.pdf.UnicodeCapable() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pdf export requires a unicode font, set REPORTS_PDF_FONT")
	}

	grades, err := s.grades.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("grade fetch for report failed", zap.Error(err), zap.String("student_id", student.ID))
		return nil, appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	data := gradeDataset(student, grades)

	var content []byte
	switch format {
	case ReportFormatPDF:
		content, err = s.pdf.Render(data, "كشف درجات - "+student.FullName)
	case ReportFormatCSV:
		content, err = s.csv.Render(data)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	reportID := uuid.NewString()
	filename := fmt.Sprintf("grades_%s_%s.%s", student.ID, reportID[:8], format)
	if _, err := s.storage.Save(filename, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(reportID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign report url")
	}

	s.logger.Info("grade report generated",
		zap.String("student_id", student.ID),
		zap.String("report_id", reportID),
		zap.String("format", format),
	)

	return &GradeReport{
		ID:        reportID,
		Filename:  filename,
		Format:    format,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Download validates a signed token and opens the stored report for
// streaming. The caller owns closing the file.
func (s *ReportService) Download(token string) (*os.File, string, error) {
	_, filename, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}

	file, err := s.storage.Open(filename)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report no longer available")
	}
	return file, filename, nil
}

// Cleanup removes stored reports older than the ttl.
func (s *ReportService) Cleanup(ttl time.Duration) {
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("report cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("stale reports removed", zap.Int("count", len(removed)))
	}
}

func gradeDataset(student models.Student, grades []models.Grade) export.Dataset {
	rows := make([]map[string]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, map[string]string{
			"المادة":        g.CourseName,
			"الدرجة":        strconv.FormatFloat(g.Score, 'f', -1, 64),
			"الدرجة الكلية": strconv.FormatFloat(g.MaxScore, 'f', -1, 64),
			"النسبة":        strconv.Itoa(g.Percentage()) + "%",
			"التقدير":       g.GradeLetter,
		})
	}
	return export.Dataset{
		Headers: []string{"المادة", "الدرجة", "الدرجة الكلية", "النسبة", "التقدير"},
		Rows:    rows,
	}
}
